package dicom

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the nominal RR intervals of a built table. It is a
// sanity glance at the acquisition, not an interpretation of the diffusion
// content.
type Summary struct {
	Rows int
	Mean float64
	Std  float64
	Min  float64
	Max  float64
}

// Summarize computes interval statistics over a built table.
func Summarize(rows []Row) Summary {
	if len(rows) == 0 {
		return Summary{}
	}

	intervals := make([]float64, len(rows))
	for i, row := range rows {
		intervals[i] = row.NominalInterval
	}

	s := Summary{
		Rows: len(rows),
		Mean: stat.Mean(intervals, nil),
		Min:  floats.Min(intervals),
		Max:  floats.Max(intervals),
	}
	if len(intervals) > 1 {
		s.Std = stat.StdDev(intervals, nil)
	}
	return s
}

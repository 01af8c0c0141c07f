package dicom

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// TimingsFileName is the name of the exported table inside the output
// directory.
const TimingsFileName = "rr_timings.csv"

// timingColumns is the fixed schema of the timing table, consumed by the
// downstream cardiac phase binning tooling. Order matters.
var timingColumns = []string{
	"file_name",
	"nominal_interval_(msec)",
	"acquisition_time",
	"acquisition_date",
	"nii_file_suffix",
}

// SortRows orders rows by acquisition date, breaking ties by acquisition
// time. The sort is stable, so rows with equal timestamps keep their file
// order.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].AcquisitionDate != rows[j].AcquisitionDate {
			return rows[i].AcquisitionDate < rows[j].AcquisitionDate
		}
		return rows[i].AcquisitionTime < rows[j].AcquisitionTime
	})
}

// WriteTimings sorts the table and writes it to path as CSV, one row per
// logical image, no index column.
func WriteTimings(path string, rows []Row) error {
	SortRows(rows)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(timingColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.FileName,
			strconv.FormatFloat(row.NominalInterval, 'f', -1, 64),
			row.AcquisitionTime,
			row.AcquisitionDate,
			row.Suffix,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row for %s: %w", row.FileName, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

package dicom

import (
	"fmt"
	"path/filepath"

	"github.com/suyashkumar/dicom"
)

// Row is the timing record of one logical image. Rows are immutable once
// built and are consumed by the exporter's sort and write.
type Row struct {
	FileName        string
	NominalInterval float64 // milliseconds
	AcquisitionTime string  // HHMMSS[.ffffff]
	AcquisitionDate string  // YYYYMMDD
	Suffix          string  // name suffix of the matching converted volume
}

// BuildTable reads every file in order and collects one Row per logical
// image, framesPerFile rows per file. Any failure aborts the whole table: a
// partially populated table would silently desynchronize from the
// converter's output set.
func BuildTable(files []string, layout Layout, framesPerFile int) ([]Row, error) {
	reader, err := ReaderFor(layout)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(files)*framesPerFile)
	for _, file := range files {
		name := filepath.Base(file)

		ds, err := dicom.ParseFile(file, nil, dicom.SkipPixelData())
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		h, err := Flatten(ds)
		if err != nil {
			return nil, fmt.Errorf("flatten %s: %w", name, err)
		}
		if err := CheckLayout(h, layout, framesPerFile); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		for frame := 0; frame < framesPerFile; frame++ {
			row, err := buildRow(reader, h, name, frame)
			if err != nil {
				return nil, fmt.Errorf("%s frame %d: %w", name, frame, err)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func buildRow(reader HeaderReader, h Header, name string, frame int) (Row, error) {
	interval, err := reader.NominalInterval(h, frame)
	if err != nil {
		return Row{}, err
	}
	acqTime, err := reader.AcquisitionTime(h, frame)
	if err != nil {
		return Row{}, err
	}
	acqDate, err := reader.AcquisitionDate(h, frame)
	if err != nil {
		return Row{}, err
	}
	suffix, err := reader.OutputSuffix(h)
	if err != nil {
		return Row{}, err
	}

	return Row{
		FileName:        name,
		NominalInterval: interval,
		AcquisitionTime: acqTime,
		AcquisitionDate: acqDate,
		Suffix:          suffix,
	}, nil
}

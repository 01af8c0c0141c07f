package dicom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/suyashkumar/dicom"

	"github.com/mrsinham/cdtiexport/internal/converter"
)

// ExportOptions contains all parameters needed to run one export.
type ExportOptions struct {
	OutputDir string // destination for converted volumes and the timing table
	DicomDir  string // directory holding the input DICOM files

	Pattern     string            // input file glob, default "*.dcm"
	Converter   *converter.Runner // volumetric converter, nil = default dcm2niix
	SkipConvert bool              // skip the volumetric conversion step
	Summary     bool              // print interval statistics after export
	Quiet       bool              // suppress progress output
}

// Export runs the whole batch: convert the DICOM directory to volumes,
// classify the header layout from the first file, assemble the timing table
// and write it into the output directory. The run is atomic: the first
// unrecoverable error aborts it and no table is written.
func Export(opts ExportOptions) error {
	if opts.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if opts.DicomDir == "" {
		return fmt.Errorf("dicom directory is required")
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*.dcm"
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if !opts.SkipConvert {
		runner := opts.Converter
		if runner == nil {
			runner = converter.Default()
		}
		if err := runner.Run(context.Background(), opts.OutputDir, opts.DicomDir); err != nil {
			return fmt.Errorf("volumetric conversion: %w", err)
		}
		if !opts.Quiet {
			fmt.Println("=============================================")
			fmt.Println("volumetric conversion finished")
			fmt.Println("=============================================")
		}
	}

	files, err := filepath.Glob(filepath.Join(opts.DicomDir, pattern))
	if err != nil {
		return fmt.Errorf("list dicom files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matching %q in %s", pattern, opts.DicomDir)
	}
	sort.Strings(files)

	// Classify the run from the first file in sorted order. The directory
	// is assumed to hold a single acquisition protocol; BuildTable
	// revalidates the assumption per file.
	first, err := dicom.ParseFile(files[0], nil, dicom.SkipPixelData())
	if err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(files[0]), err)
	}
	firstHeader, err := Flatten(first)
	if err != nil {
		return fmt.Errorf("flatten %s: %w", filepath.Base(files[0]), err)
	}
	layout, framesPerFile, err := Classify(firstHeader)
	if err != nil {
		return fmt.Errorf("classify %s: %w", filepath.Base(files[0]), err)
	}
	if !opts.Quiet {
		fmt.Printf("%d files, %s layout, %d image(s) per file\n", len(files), layout, framesPerFile)
	}

	rows, err := BuildTable(files, layout, framesPerFile)
	if err != nil {
		return err
	}

	csvPath := filepath.Join(opts.OutputDir, TimingsFileName)
	if err := WriteTimings(csvPath, rows); err != nil {
		return fmt.Errorf("write %s: %w", TimingsFileName, err)
	}
	if !opts.Quiet {
		fmt.Println("=============================================")
		fmt.Printf("%s exported (%d rows)\n", TimingsFileName, len(rows))
		fmt.Println("=============================================")
	}

	if opts.Summary && !opts.Quiet {
		s := Summarize(rows)
		fmt.Printf("nominal interval: mean %.1f ms, std %.1f ms, range %.0f-%.0f ms over %d images\n",
			s.Mean, s.Std, s.Min, s.Max, s.Rows)
	}
	return nil
}

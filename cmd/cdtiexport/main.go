package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrsinham/cdtiexport/internal/config"
	"github.com/mrsinham/cdtiexport/internal/converter"
	"github.com/mrsinham/cdtiexport/internal/dicom"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	converterPath := flag.String("converter", converter.DefaultBinary, "Volumetric converter binary")
	pattern := flag.String("pattern", "*.dcm", "Glob pattern for input DICOM files")
	skipConvert := flag.Bool("skip-convert", false, "Skip the volumetric conversion step (timing table only)")
	summary := flag.Bool("summary", false, "Print nominal interval statistics after export")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	configFile := flag.String("config", "", "Load settings from YAML file (flags take precedence)")
	showVersion := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help message")

	flag.Parse()

	// Show version
	if *showVersion {
		fmt.Printf("cdtiexport %s\n", version)
		os.Exit(0)
	}

	// Show help
	if *help {
		printHelp()
		os.Exit(0)
	}

	// Validate positional arguments
	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Error: expected <output-dir> and <dicom-dir> arguments, got %d\n", flag.NArg())
		printUsage()
		os.Exit(1)
	}

	runner := converter.Default()
	runner.Path = *converterPath

	opts := dicom.ExportOptions{
		OutputDir:   flag.Arg(0),
		DicomDir:    flag.Arg(1),
		Pattern:     *pattern,
		Converter:   runner,
		SkipConvert: *skipConvert,
		Summary:     *summary,
		Quiet:       *quiet,
	}

	// Apply config file values where the corresponding flag was not set
	if *configFile != "" {
		cfg, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		set := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

		if cfg.Converter.Path != "" && !set["converter"] {
			runner.Path = cfg.Converter.Path
		}
		if len(cfg.Converter.Args) > 0 {
			runner.Args = cfg.Converter.Args
		}
		if cfg.Converter.Skip && !set["skip-convert"] {
			opts.SkipConvert = true
		}
		if cfg.Input.Pattern != "" && !set["pattern"] {
			opts.Pattern = cfg.Input.Pattern
		}
		if cfg.Output.Summary && !set["summary"] {
			opts.Summary = true
		}
		if cfg.Output.Quiet && !set["quiet"] {
			opts.Quiet = true
		}
	}

	if !opts.Quiet {
		fmt.Println("cdtiexport")
		fmt.Println("==========")
		fmt.Println()
	}

	if err := dicom.Export(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  cdtiexport [options] <output-dir> <dicom-dir>")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	flag.PrintDefaults()
}

func printHelp() {
	fmt.Println("cdtiexport")
	fmt.Println("==========")
	fmt.Println()
	fmt.Println("Convert cardiac DTI DICOM series to NIfTI and export per-image")
	fmt.Println("RR timing metadata as a CSV table.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cdtiexport [options] <output-dir> <dicom-dir>")
	fmt.Println()
	fmt.Println("Arguments:")
	fmt.Println("  <output-dir>          Destination for NIfTI volumes and rr_timings.csv")
	fmt.Println("  <dicom-dir>           Directory holding the input DICOM files")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --converter <BIN>     Volumetric converter binary (default: dcm2niix)")
	fmt.Println("  --pattern <GLOB>      Glob pattern for input DICOM files (default: *.dcm)")
	fmt.Println("  --skip-convert        Skip the volumetric conversion step (timing table only)")
	fmt.Println("  --summary             Print nominal interval statistics after export")
	fmt.Println("  --quiet               Suppress progress output")
	fmt.Println("  --config <FILE>       Load settings from YAML file (flags take precedence)")
	fmt.Println("  --version             Show version")
	fmt.Println("  --help                Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Convert a series and export its timing table")
	fmt.Println("  cdtiexport ./out ./dicoms")
	fmt.Println()
	fmt.Println("  # Re-export the timing table without re-running the converter")
	fmt.Println("  cdtiexport --skip-convert ./out ./dicoms")
	fmt.Println()
	fmt.Println("  # Use a converter that is not on PATH")
	fmt.Println("  cdtiexport --converter /opt/dcm2niix/bin/dcm2niix ./out ./dicoms")
	fmt.Println()
	fmt.Println("Output:")
	fmt.Println("  rr_timings.csv with one row per acquired image:")
	fmt.Println("  file_name, nominal_interval_(msec), acquisition_time,")
	fmt.Println("  acquisition_date, nii_file_suffix; rows sorted by acquisition")
	fmt.Println("  date then time.")
}

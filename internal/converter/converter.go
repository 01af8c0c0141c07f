// Package converter wraps the external DICOM to NIfTI converter as an
// explicit process boundary.
package converter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// DefaultBinary is the converter executable expected on PATH.
const DefaultBinary = "dcm2niix"

// Runner invokes the volumetric converter for one directory pair.
type Runner struct {
	Path string   // converter binary, looked up on PATH when not absolute
	Args []string // arguments placed before the output and input directories
}

// Default returns a Runner for dcm2niix with its standard arguments. The
// converter is kept quiet; the exporter reports its own progress.
func Default() *Runner {
	return &Runner{Path: DefaultBinary, Args: []string{"-v", "0"}}
}

// Run converts dicomDir into outputDir. The exit status is checked: a
// failed conversion would leave the timing table without matching volumes,
// so it aborts the run, with the converter's captured output attached to
// the error.
func (r *Runner) Run(ctx context.Context, outputDir, dicomDir string) error {
	bin, err := exec.LookPath(r.Path)
	if err != nil {
		return fmt.Errorf("converter %q not found: %w", r.Path, err)
	}

	args := append([]string{}, r.Args...)
	args = append(args, "-o", outputDir, dicomDir)

	cmd := exec.CommandContext(ctx, bin, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w\n%s", r.Path, err, output.String())
	}
	return nil
}

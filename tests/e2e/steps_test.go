package e2e

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mrsinham/cdtiexport/internal/dicomgen"
)

// binaryPath holds the path to the compiled binary (set once in TestMain)
var binaryPath string

// testContext holds state for a single scenario
type testContext struct {
	tmpDir   string
	exitCode int
	output   string
}

// buildBinary compiles the cdtiexport binary once
func buildBinary() (string, error) {
	tmpFile, err := os.CreateTemp("", "cdtiexport-test-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpFile.Close()

	// Get the directory of this test file to find the project root
	_, thisFile, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", tmpFile.Name(), "./cmd/cdtiexport")
	cmd.Dir = projectRoot
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build failed: %w\n%s", err, stderr.String())
	}

	return tmpFile.Name(), nil
}

// TestMain compiles the binary once before running all tests
func TestMain(m *testing.M) {
	var err error
	binaryPath, err = buildBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build binary: %v\n", err)
		os.Exit(1)
	}
	defer os.Remove(binaryPath)

	code := m.Run()
	os.Exit(code)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &testContext{}

	// Setup: create temp directory before each scenario
	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tmpDir, err := os.MkdirTemp("", "cdtiexport-e2e-*")
		if err != nil {
			return ctx, err
		}
		tc.tmpDir = tmpDir
		return ctx, nil
	})

	// Teardown: cleanup temp directory after each scenario
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.tmpDir != "" {
			os.RemoveAll(tc.tmpDir)
		}
		return ctx, nil
	})

	// Step definitions
	sc.Step(`^cdtiexport is built$`, tc.cdtiexportIsBuilt)
	sc.Step(`^a legacy cardiac series with (\d+) files in "([^"]*)"$`, tc.legacySeriesIn)
	sc.Step(`^a multi-frame cardiac series with (\d+) frames in "([^"]*)"$`, tc.modernSeriesIn)
	sc.Step(`^I run cdtiexport with "([^"]*)"$`, tc.iRunCdtiexportWith)
	sc.Step(`^the exit code should be (\d+)$`, tc.theExitCodeShouldBe)
	sc.Step(`^the output should contain "([^"]*)"$`, tc.theOutputShouldContain)
	sc.Step(`^"([^"]*)" should exist$`, tc.shouldExist)
	sc.Step(`^"([^"]*)" should be a timing table with (\d+) rows$`, tc.shouldBeTimingTable)
}

func (tc *testContext) cdtiexportIsBuilt() error {
	if binaryPath == "" {
		return fmt.Errorf("binary not built")
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		return fmt.Errorf("binary does not exist at %s", binaryPath)
	}
	return nil
}

func (tc *testContext) legacySeriesIn(count int, path string) error {
	dir := strings.ReplaceAll(path, "{tmpdir}", tc.tmpDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		spec := dicomgen.LegacySpec{
			AcquisitionTime: fmt.Sprintf("1430%02d", 25+i),
			NominalInterval: fmt.Sprintf("%d", 850+10*i),
		}
		name := filepath.Join(dir, fmt.Sprintf("IMG%04d.dcm", i+1))
		if err := dicomgen.WriteDataset(name, dicomgen.LegacyDataset(spec)); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

func (tc *testContext) modernSeriesIn(frames int, path string) error {
	dir := strings.ReplaceAll(path, "{tmpdir}", tc.tmpDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	spec := dicomgen.ModernSpec{}
	for i := 0; i < frames; i++ {
		spec.Frames = append(spec.Frames, dicomgen.Frame{
			RRInterval:          850 + 10*float64(i),
			AcquisitionDateTime: fmt.Sprintf("202301011430%02d", 20+i),
		})
	}
	name := filepath.Join(dir, "IMG0001.dcm")
	if err := dicomgen.WriteDataset(name, dicomgen.ModernDataset(spec)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (tc *testContext) iRunCdtiexportWith(args string) error {
	// Replace {tmpdir} placeholder with actual temp directory
	args = strings.ReplaceAll(args, "{tmpdir}", tc.tmpDir)

	cmd := exec.Command(binaryPath, strings.Fields(args)...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	tc.output = output.String()

	if exitErr, ok := err.(*exec.ExitError); ok {
		tc.exitCode = exitErr.ExitCode()
	} else if err != nil {
		return fmt.Errorf("failed to run command: %w", err)
	} else {
		tc.exitCode = 0
	}

	return nil
}

func (tc *testContext) theExitCodeShouldBe(expected int) error {
	if tc.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nOutput:\n%s", expected, tc.exitCode, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(tc.output, expected) {
		return fmt.Errorf("output does not contain %q\nOutput:\n%s", expected, tc.output)
	}
	return nil
}

func (tc *testContext) shouldExist(path string) error {
	path = strings.ReplaceAll(path, "{tmpdir}", tc.tmpDir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	return nil
}

func (tc *testContext) shouldBeTimingTable(path string, rows int) error {
	path = strings.ReplaceAll(path, "{tmpdir}", tc.tmpDir)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open timing table: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("parse timing table: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("timing table is empty")
	}

	header := strings.Join(records[0], ",")
	want := "file_name,nominal_interval_(msec),acquisition_time,acquisition_date,nii_file_suffix"
	if header != want {
		return fmt.Errorf("unexpected header %q", header)
	}
	if got := len(records) - 1; got != rows {
		return fmt.Errorf("expected %d rows, got %d", rows, got)
	}
	return nil
}

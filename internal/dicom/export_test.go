package dicom

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestSortRows(t *testing.T) {
	rows := []Row{
		{FileName: "c.dcm", AcquisitionDate: "20230102", AcquisitionTime: "080000"},
		{FileName: "a.dcm", AcquisitionDate: "20230101", AcquisitionTime: "235959"},
		{FileName: "b.dcm", AcquisitionDate: "20230101", AcquisitionTime: "080000"},
	}

	SortRows(rows)

	want := []string{"b.dcm", "a.dcm", "c.dcm"}
	for i, row := range rows {
		if row.FileName != want[i] {
			t.Errorf("position %d: got %s, want %s", i, row.FileName, want[i])
		}
	}
}

// Date ordering dominates regardless of time values.
func TestSortRows_DatePrimary(t *testing.T) {
	rows := []Row{
		{FileName: "late.dcm", AcquisitionDate: "20230102", AcquisitionTime: "000001"},
		{FileName: "early.dcm", AcquisitionDate: "20230101", AcquisitionTime: "235959"},
	}

	SortRows(rows)

	if rows[0].FileName != "early.dcm" {
		t.Errorf("earlier date should sort first, got %s", rows[0].FileName)
	}
}

// Rows with identical timestamps keep their original order.
func TestSortRows_Stable(t *testing.T) {
	rows := []Row{
		{FileName: "first.dcm", AcquisitionDate: "20230101", AcquisitionTime: "120000"},
		{FileName: "second.dcm", AcquisitionDate: "20230101", AcquisitionTime: "120000"},
		{FileName: "third.dcm", AcquisitionDate: "20230101", AcquisitionTime: "120000"},
	}

	SortRows(rows)

	want := []string{"first.dcm", "second.dcm", "third.dcm"}
	for i, row := range rows {
		if row.FileName != want[i] {
			t.Errorf("position %d: got %s, want %s", i, row.FileName, want[i])
		}
	}
}

func TestWriteTimings(t *testing.T) {
	path := filepath.Join(t.TempDir(), TimingsFileName)

	rows := []Row{
		{
			FileName:        "IMG0002.dcm",
			NominalInterval: 912.5,
			AcquisitionTime: "143026",
			AcquisitionDate: "20230101",
			Suffix:          "DTI_SAX_20230101143023_7",
		},
		{
			FileName:        "IMG0001.dcm",
			NominalInterval: 850,
			AcquisitionTime: "143025",
			AcquisitionDate: "20230101",
			Suffix:          "DTI_SAX_20230101143023_7",
		},
	}

	if err := WriteTimings(path, rows); err != nil {
		t.Fatalf("WriteTimings failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{
		"file_name,nominal_interval_(msec),acquisition_time,acquisition_date,nii_file_suffix",
		"IMG0001.dcm,850,143025,20230101,DTI_SAX_20230101143023_7",
		"IMG0002.dcm,912.5,143026,20230101,DTI_SAX_20230101143023_7",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("csv content mismatch:\ngot  %q\nwant %q", lines, want)
	}
}

func TestWriteTimings_BadPath(t *testing.T) {
	if err := WriteTimings(filepath.Join(t.TempDir(), "no-such-dir", TimingsFileName), nil); err == nil {
		t.Error("writing into a missing directory should fail")
	}
}

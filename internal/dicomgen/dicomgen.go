// Package dicomgen generates small synthetic cardiac DTI DICOM files for
// tests, in both the legacy single-frame and the modern multi-frame header
// layouts.
package dicomgen

import (
	"fmt"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// mustNewPrivateElement creates a DICOM element with a private tag and
// explicit VR. Required because dicom.NewElement fails on unregistered
// private tags.
func mustNewPrivateElement(t tag.Tag, rawVR string, data any) *dicom.Element {
	value, err := dicom.NewValue(data)
	if err != nil {
		panic(fmt.Sprintf("failed to create value for private element %v: %v", t, err))
	}
	return &dicom.Element{
		Tag:                    t,
		ValueRepresentation:    tag.GetVRKind(t, rawVR),
		RawValueRepresentation: rawVR,
		Value:                  value,
	}
}

// metaElements returns the file meta group shared by all generated files.
func metaElements() []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.TransferSyntaxUID, []string{"1.2.840.10008.1.2.1"}), // Explicit VR Little Endian
		mustNewElement(tag.MediaStorageSOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.4"}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.1"}),
		mustNewElement(tag.ImplementationClassUID, []string{"1.2.826.0.1.3680043.8.498"}),
	}
}

// seriesElements returns the series-level naming fields used by the output
// suffix.
func seriesElements(description, date, studyTime, number string) []*dicom.Element {
	return []*dicom.Element{
		mustNewElement(tag.SOPClassUID, []string{"1.2.840.10008.5.1.4.1.1.4"}),
		mustNewElement(tag.SOPInstanceUID, []string{"1.2.826.0.1.3680043.8.498.1"}),
		mustNewElement(tag.Modality, []string{"MR"}),
		mustNewElement(tag.SeriesDescription, []string{description}),
		mustNewElement(tag.SeriesDate, []string{date}),
		mustNewElement(tag.StudyTime, []string{studyTime}),
		mustNewElement(tag.SeriesNumber, []string{number}),
	}
}

// LegacySpec describes one legacy-layout file. Zero fields fall back to the
// defaults of a plausible cardiac DTI acquisition.
type LegacySpec struct {
	SeriesDescription string
	SeriesDate        string
	StudyTime         string
	SeriesNumber      string
	AcquisitionDate   string
	AcquisitionTime   string
	NominalInterval   string

	// Private Siemens diffusion fields, omitted when empty
	BValue            string
	GradientDirection []float64
}

func (s *LegacySpec) applyDefaults() {
	if s.SeriesDescription == "" {
		s.SeriesDescription = "cDTI SAX"
	}
	if s.SeriesDate == "" {
		s.SeriesDate = "20230101"
	}
	if s.StudyTime == "" {
		s.StudyTime = "143022.5"
	}
	if s.SeriesNumber == "" {
		s.SeriesNumber = "7"
	}
	if s.AcquisitionDate == "" {
		s.AcquisitionDate = "20230101"
	}
	if s.AcquisitionTime == "" {
		s.AcquisitionTime = "143025"
	}
	if s.NominalInterval == "" {
		s.NominalInterval = "850"
	}
}

// LegacyDataset builds a single-frame dataset with timing fields at the top
// level of the header.
func LegacyDataset(spec LegacySpec) dicom.Dataset {
	spec.applyDefaults()

	elements := metaElements()
	elements = append(elements, seriesElements(
		spec.SeriesDescription, spec.SeriesDate, spec.StudyTime, spec.SeriesNumber)...)
	elements = append(elements,
		mustNewElement(tag.AcquisitionDate, []string{spec.AcquisitionDate}),
		mustNewElement(tag.AcquisitionTime, []string{spec.AcquisitionTime}),
		mustNewElement(tag.NominalInterval, []string{spec.NominalInterval}),
	)

	if spec.BValue != "" {
		elements = append(elements,
			mustNewPrivateElement(tag.Tag{Group: 0x0019, Element: 0x100C}, "DS", []string{spec.BValue}))
	}
	if len(spec.GradientDirection) > 0 {
		elements = append(elements,
			mustNewPrivateElement(tag.Tag{Group: 0x0019, Element: 0x100E}, "FD", spec.GradientDirection))
	}

	return dicom.Dataset{Elements: elements}
}

// Frame describes one logical image of a modern-layout file.
type Frame struct {
	RRInterval          float64
	AcquisitionDateTime string // YYYYMMDDHHMMSS[.ffffff]
}

// ModernSpec describes one multi-frame file. Zero naming fields fall back
// to the same defaults as LegacySpec.
type ModernSpec struct {
	SeriesDescription string
	SeriesDate        string
	StudyTime         string
	SeriesNumber      string
	Frames            []Frame
}

// ModernDataset builds a multi-frame dataset with one
// PerFrameFunctionalGroupsSequence item per frame, each carrying the
// nested cardiac synchronization and frame content sequences.
func ModernDataset(spec ModernSpec) dicom.Dataset {
	legacy := LegacySpec{
		SeriesDescription: spec.SeriesDescription,
		SeriesDate:        spec.SeriesDate,
		StudyTime:         spec.StudyTime,
		SeriesNumber:      spec.SeriesNumber,
	}
	legacy.applyDefaults()

	elements := metaElements()
	elements = append(elements, seriesElements(
		legacy.SeriesDescription, legacy.SeriesDate, legacy.StudyTime, legacy.SeriesNumber)...)

	items := make([][]*dicom.Element, 0, len(spec.Frames))
	for _, f := range spec.Frames {
		items = append(items, []*dicom.Element{
			mustNewElement(tag.CardiacSynchronizationSequence, [][]*dicom.Element{{
				mustNewElement(tag.RRIntervalTimeNominal, []float64{f.RRInterval}),
			}}),
			mustNewElement(tag.FrameContentSequence, [][]*dicom.Element{{
				mustNewElement(tag.FrameAcquisitionDateTime, []string{f.AcquisitionDateTime}),
			}}),
		})
	}
	elements = append(elements, mustNewElement(tag.PerFrameFunctionalGroupsSequence, items))

	return dicom.Dataset{Elements: elements}
}

// WriteDataset writes a generated dataset to a file. VR verification is
// relaxed so the private diffusion elements round-trip.
func WriteDataset(filename string, ds dicom.Dataset) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return dicom.Write(f, ds, dicom.SkipVRVerification(), dicom.SkipValueTypeVerification())
}

package dicom

import (
	"fmt"
	"strings"

	"github.com/mrsinham/cdtiexport/internal/util"
)

// Keywords of the timing and naming fields used by the accessors.
const (
	keyCardiacSyncSequence  = "CardiacSynchronizationSequence"
	keyRRIntervalNominal    = "RRIntervalTimeNominal"
	keyFrameContentSequence = "FrameContentSequence"
	keyFrameAcquisitionDT   = "FrameAcquisitionDateTime"
	keyNominalInterval      = "NominalInterval"
	keyAcquisitionTime      = "AcquisitionTime"
	keyAcquisitionDate      = "AcquisitionDate"
	keySeriesDescription    = "SeriesDescription"
	keySeriesDate           = "SeriesDate"
	keyStudyTime            = "StudyTime"
	keySeriesNumber         = "SeriesNumber"
)

// HeaderReader exposes the four timing accessors over one header layout.
// The frame index selects an item of the per-frame sequence under the
// modern layout and is ignored under the legacy one.
type HeaderReader interface {
	// NominalInterval returns the expected milliseconds between heartbeats
	// at the moment the image was triggered.
	NominalInterval(h Header, frame int) (float64, error)
	// AcquisitionTime returns the time-of-day portion of the acquisition
	// timestamp ("HHMMSS[.ffffff]"), comparable lexicographically within a
	// day.
	AcquisitionTime(h Header, frame int) (string, error)
	// AcquisitionDate returns the acquisition date ("YYYYMMDD").
	AcquisitionDate(h Header, frame int) (string, error)
	// OutputSuffix returns the name suffix of the converted volume file
	// this image belongs to.
	OutputSuffix(h Header) (string, error)
}

// ReaderFor returns the accessor set for a classified layout. An
// unrecognized layout is an error rather than a silent absent value.
func ReaderFor(layout Layout) (HeaderReader, error) {
	switch layout {
	case LayoutLegacy:
		return legacyReader{}, nil
	case LayoutModern:
		return modernReader{}, nil
	default:
		return nil, fmt.Errorf("unrecognized header layout %d", layout)
	}
}

type legacyReader struct{}

func (legacyReader) NominalInterval(h Header, _ int) (float64, error) {
	return scalarFloat(h, keyNominalInterval)
}

func (legacyReader) AcquisitionTime(h Header, _ int) (string, error) {
	return scalarString(h, keyAcquisitionTime)
}

func (legacyReader) AcquisitionDate(h Header, _ int) (string, error) {
	return scalarString(h, keyAcquisitionDate)
}

func (legacyReader) OutputSuffix(h Header) (string, error) {
	return outputSuffix(h)
}

type modernReader struct{}

func (modernReader) NominalInterval(h Header, frame int) (float64, error) {
	group, err := h.item(keyPerFrameGroups, frame)
	if err != nil {
		return 0, err
	}
	sync, err := group.item(keyCardiacSyncSequence, 0)
	if err != nil {
		return 0, err
	}
	return scalarFloat(sync, keyRRIntervalNominal)
}

func (r modernReader) AcquisitionTime(h Header, frame int) (string, error) {
	dt, err := r.acquisitionDateTime(h, frame)
	if err != nil {
		return "", err
	}
	return dt[8:], nil
}

func (r modernReader) AcquisitionDate(h Header, frame int) (string, error) {
	dt, err := r.acquisitionDateTime(h, frame)
	if err != nil {
		return "", err
	}
	return dt[:8], nil
}

func (modernReader) OutputSuffix(h Header) (string, error) {
	return outputSuffix(h)
}

// acquisitionDateTime returns the combined YYYYMMDDHHMMSS[.ffffff] stamp of
// one frame.
func (modernReader) acquisitionDateTime(h Header, frame int) (string, error) {
	group, err := h.item(keyPerFrameGroups, frame)
	if err != nil {
		return "", err
	}
	content, err := group.item(keyFrameContentSequence, 0)
	if err != nil {
		return "", err
	}
	dt, err := scalarString(content, keyFrameAcquisitionDT)
	if err != nil {
		return "", err
	}
	if len(dt) < 8 {
		return "", fmt.Errorf("%s %q is shorter than a YYYYMMDD date", keyFrameAcquisitionDT, dt)
	}
	return dt, nil
}

// outputSuffix reproduces the naming convention the volumetric converter
// uses for its output files, so table rows can be joined against the
// converted volumes: SeriesDescription, SeriesDate directly followed by the
// study time rounded to whole seconds, and SeriesNumber, underscore-joined,
// with spaces replaced by underscores. Identical under both layouts.
func outputSuffix(h Header) (string, error) {
	desc, err := scalarString(h, keySeriesDescription)
	if err != nil {
		return "", err
	}
	date, err := scalarString(h, keySeriesDate)
	if err != nil {
		return "", err
	}
	studyTime, err := scalarFloat(h, keyStudyTime)
	if err != nil {
		return "", err
	}
	number, err := scalarString(h, keySeriesNumber)
	if err != nil {
		return "", err
	}

	suffix := fmt.Sprintf("%s_%s%d_%s", desc, date, util.RoundHalfUp(studyTime), number)
	return strings.ReplaceAll(suffix, " ", "_"), nil
}

func scalarString(h Header, key string) (string, error) {
	v, err := h.scalar(key)
	if err != nil {
		return "", err
	}
	s, err := util.AsString(v)
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return s, nil
}

func scalarFloat(h Header, key string) (float64, error) {
	v, err := h.scalar(key)
	if err != nil {
		return 0, err
	}
	f, err := util.AsFloat(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

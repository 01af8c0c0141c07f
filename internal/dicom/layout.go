package dicom

import "fmt"

// Layout identifies which of the two supported DICOM header layouts a
// series was written with.
type Layout int

const (
	// LayoutLegacy is the single-frame-per-file layout, with timing fields
	// at the top level of the header.
	LayoutLegacy Layout = iota + 1
	// LayoutModern is the multi-frame layout, where each logical image is
	// described by an item of PerFrameFunctionalGroupsSequence.
	LayoutModern
)

// String returns a human-readable name for the layout.
func (l Layout) String() string {
	switch l {
	case LayoutLegacy:
		return "legacy"
	case LayoutModern:
		return "modern"
	default:
		return "unknown"
	}
}

const keyPerFrameGroups = "PerFrameFunctionalGroupsSequence"

// Classify inspects a representative header and returns the layout plus the
// number of logical images packed into each file. A run is classified once,
// from the first file in sorted order; CheckLayout revalidates the
// assumption against every subsequent file.
func Classify(h Header) (Layout, int, error) {
	entry, ok := h[keyPerFrameGroups]
	if !ok {
		return LayoutLegacy, 1, nil
	}
	if !entry.IsSequence() {
		return 0, 0, fmt.Errorf("%s is not a sequence", keyPerFrameGroups)
	}
	if len(entry.Items) == 0 {
		return 0, 0, fmt.Errorf("%s has no items", keyPerFrameGroups)
	}
	return LayoutModern, len(entry.Items), nil
}

// CheckLayout verifies that a header matches the layout and frame count the
// run was classified with. A mismatch means the directory violates the
// single-protocol precondition and the fields would be misread.
func CheckLayout(h Header, layout Layout, framesPerFile int) error {
	got, frames, err := Classify(h)
	if err != nil {
		return err
	}
	if got != layout {
		return fmt.Errorf("header layout is %s, run was classified as %s", got, layout)
	}
	if frames != framesPerFile {
		return fmt.Errorf("file holds %d images, run was classified with %d per file", frames, framesPerFile)
	}
	return nil
}

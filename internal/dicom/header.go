// Package dicom extracts per-image timing metadata from cardiac
// diffusion-weighted MRI DICOM series.
package dicom

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Siemens private diffusion tags. They have no public dictionary keyword,
// so the generic flattening pass cannot reach them.
var (
	tagDiffusionBValue            = tag.Tag{Group: 0x0019, Element: 0x100C}
	tagDiffusionGradientDirection = tag.Tag{Group: 0x0019, Element: 0x100E}
)

// Synthetic keys under which the private diffusion fields are stored.
const (
	keyDiffusionBValue            = "DiffusionBValue"
	keyDiffusionGradientDirection = "DiffusionGradientDirection"
)

// Header is a DICOM dataset flattened into a keyword-addressable form.
type Header map[string]Entry

// Entry is one flattened element: either a scalar leaf carrying the element
// payload verbatim, or an ordered list of nested headers for a sequence
// element. Exactly one of the two fields is set.
type Entry struct {
	Value any
	Items []Header
}

// IsSequence reports whether the entry holds nested sequence items.
func (e Entry) IsSequence() bool { return e.Items != nil }

// scalar returns the leaf payload stored under key.
func (h Header) scalar(key string) (any, error) {
	entry, ok := h[key]
	if !ok {
		return nil, fmt.Errorf("header has no %s", key)
	}
	if entry.IsSequence() {
		return nil, fmt.Errorf("%s is a sequence, expected a scalar", key)
	}
	return entry.Value, nil
}

// item returns the idx-th nested header of the sequence stored under key.
func (h Header) item(key string, idx int) (Header, error) {
	entry, ok := h[key]
	if !ok {
		return nil, fmt.Errorf("header has no %s", key)
	}
	if !entry.IsSequence() {
		return nil, fmt.Errorf("%s is not a sequence", key)
	}
	if idx < 0 || idx >= len(entry.Items) {
		return nil, fmt.Errorf("%s has %d items, index %d out of range", key, len(entry.Items), idx)
	}
	return entry.Items[idx], nil
}

// Flatten converts a parsed dataset into a Header. Every element with a
// public dictionary keyword is copied: scalars verbatim, sequences as
// recursively flattened item lists. Elements without a public keyword are
// skipped, except the two private diffusion fields, which are recovered by
// tag address and injected under synthetic keys. Flatten is a pure function
// of the dataset.
func Flatten(ds dicom.Dataset) (Header, error) {
	h, err := flattenElements(ds.Elements)
	if err != nil {
		return nil, err
	}

	if elem, err := ds.FindElementByTag(tagDiffusionBValue); err == nil {
		h[keyDiffusionBValue] = Entry{Value: elem.Value.GetValue()}
	}
	if elem, err := ds.FindElementByTag(tagDiffusionGradientDirection); err == nil {
		h[keyDiffusionGradientDirection] = Entry{Value: elem.Value.GetValue()}
	}
	return h, nil
}

func flattenElements(elems []*dicom.Element) (Header, error) {
	h := make(Header, len(elems))
	for _, elem := range elems {
		info, err := tag.Find(elem.Tag)
		if err != nil || info.Keyword == "" {
			// Private or unnamed element, not addressable by keyword.
			continue
		}
		if elem.Value.ValueType() == dicom.Sequences {
			items, err := flattenSequence(elem)
			if err != nil {
				return nil, fmt.Errorf("flatten sequence %s: %w", info.Keyword, err)
			}
			h[info.Keyword] = Entry{Items: items}
			continue
		}
		h[info.Keyword] = Entry{Value: elem.Value.GetValue()}
	}
	return h, nil
}

func flattenSequence(elem *dicom.Element) ([]Header, error) {
	seqItems, ok := elem.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil, fmt.Errorf("sequence element carries %T, not sequence items", elem.Value.GetValue())
	}
	items := make([]Header, 0, len(seqItems))
	for _, item := range seqItems {
		itemElems, ok := item.GetValue().([]*dicom.Element)
		if !ok {
			return nil, fmt.Errorf("sequence item carries %T, not elements", item.GetValue())
		}
		sub, err := flattenElements(itemElems)
		if err != nil {
			return nil, err
		}
		items = append(items, sub)
	}
	return items, nil
}

package model

import (
	"encoding/json"
	"fmt"
)

// IDSource records whether a figure's ID was read out of its caption text or
// synthesized from its page position.
type IDSource int

const (
	IDSourceGenerated IDSource = iota
	IDSourceExtracted
)

func (s IDSource) String() string {
	if s == IDSourceExtracted {
		return "extracted"
	}
	return "generated"
}

// MarshalJSON serializes the source as its string form.
func (s IDSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form.
func (s *IDSource) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("id source: %w", err)
	}
	if v == "extracted" {
		*s = IDSourceExtracted
	} else {
		*s = IDSourceGenerated
	}
	return nil
}

// Figure is a resolved logical figure: a cluster of layout detections (the
// picture plus its title, caption, and trailing number) consolidated into one
// entity with a stable identifier. Figures are created once during page
// processing and never mutated afterward, except for the document-scoped
// sequence statistics appended after all pages are grouped.
//
// FigureID is not globally unique across mismatched types, but two figures
// sharing the same (ReferenceType, FigureID) pair are variants of the same
// logical entity for matching purposes.
type Figure struct {
	FigureID      string        `json:"figure_id"`
	Type          LayoutType    `json:"type"`
	ReferenceType ReferenceType `json:"reference_type"`
	BBox          BoundingBox   `json:"bbox"`
	PageIndex     int           `json:"page_idx"`
	Text          string        `json:"text"`
	Confidence    float64       `json:"confidence"`
	Elements      []RawElement  `json:"elements,omitempty"`
	IDSource      IDSource      `json:"id_source"`

	// Document-scoped statistics, appended after grouping.
	SequenceInPage int `json:"sequence_in_page,omitempty"`
	TotalInPage    int `json:"total_in_page,omitempty"`
}

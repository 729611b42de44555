package model

import (
	"encoding/json"
	"fmt"
)

// ReferenceType is the semantic category of a figure or an in-text citation.
// It gates which Figures a Reference may resolve to.
type ReferenceType int

const (
	ReferenceUnknown ReferenceType = iota
	ReferenceFigure
	ReferenceTable
	ReferenceEquation
	ReferenceExample
	ReferenceAlgorithm
)

func (rt ReferenceType) String() string {
	switch rt {
	case ReferenceFigure:
		return "figure"
	case ReferenceTable:
		return "table"
	case ReferenceEquation:
		return "equation"
	case ReferenceExample:
		return "example"
	case ReferenceAlgorithm:
		return "algorithm"
	default:
		return "unknown"
	}
}

// ParseReferenceType converts a string form back to a ReferenceType.
// Unrecognized strings map to ReferenceUnknown.
func ParseReferenceType(s string) ReferenceType {
	switch s {
	case "figure":
		return ReferenceFigure
	case "table":
		return ReferenceTable
	case "equation":
		return ReferenceEquation
	case "example":
		return ReferenceExample
	case "algorithm":
		return ReferenceAlgorithm
	default:
		return ReferenceUnknown
	}
}

// MarshalJSON serializes the type as its string form.
func (rt ReferenceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(rt.String())
}

// UnmarshalJSON parses the string form.
func (rt *ReferenceType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("reference type: %w", err)
	}
	*rt = ParseReferenceType(s)
	return nil
}

// Reference is one in-text citation occurrence ("Fig. 2.1", "(3.4)",
// "Table 5"). It is created by reference extraction and later annotated,
// never replaced, by mapping: FigureID and NotMatched are the only fields
// mapping touches.
type Reference struct {
	Text        string        `json:"text"`
	BBox        BoundingBox   `json:"bbox"`
	PageIndex   int           `json:"page_idx"`
	Type        ReferenceType `json:"reference_type"`
	ExtractedID string        `json:"extracted_id,omitempty"`

	// Mapping annotations.
	FigureID   string `json:"figure_id,omitempty"`
	NotMatched bool   `json:"not_matched"`
}

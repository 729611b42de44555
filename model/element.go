package model

import "math"

// LayoutType is the class name assigned to a detection by the external layout
// model. The vocabulary is fixed by the model; anything outside it is treated
// as plain text and ignored by grouping.
type LayoutType string

const (
	LayoutFigure        LayoutType = "figure"
	LayoutImage         LayoutType = "image"
	LayoutTable         LayoutType = "table"
	LayoutFormula       LayoutType = "formula"
	LayoutAlgorithm     LayoutType = "algorithm"
	LayoutFigureTitle   LayoutType = "figure_title"
	LayoutFigureCaption LayoutType = "figure_caption"
	LayoutTableCaption  LayoutType = "table_caption"
	LayoutNumber        LayoutType = "number"
	LayoutText          LayoutType = "text"
)

// IsCore reports whether the type is a core content element: the image,
// table, formula, or algorithm body that a logical figure is built around.
func (t LayoutType) IsCore() bool {
	switch t {
	case LayoutFigure, LayoutImage, LayoutTable, LayoutFormula, LayoutAlgorithm:
		return true
	}
	return false
}

// IsMetadata reports whether the type is a metadata element: a title,
// caption, or trailing number that attaches to a nearby core element.
func (t LayoutType) IsMetadata() bool {
	switch t {
	case LayoutFigureTitle, LayoutFigureCaption, LayoutTableCaption, LayoutNumber:
		return true
	}
	return false
}

// RawElement is one detection from the external layout model. It is read-only
// input to grouping; the original detections are preserved on each Figure for
// traceability.
type RawElement struct {
	Type       LayoutType  `json:"type"`
	BBox       BoundingBox `json:"bbox"`
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
}

// Sanitize returns a copy with the bounding box dimensions clamped to zero
// and the confidence coerced into [0, 1]. Non-finite confidence becomes 0.
func (e RawElement) Sanitize() RawElement {
	e.BBox = NewBoundingBox(e.BBox.X, e.BBox.Y, e.BBox.Width, e.BBox.Height)
	if math.IsNaN(e.Confidence) || math.IsInf(e.Confidence, 0) || e.Confidence < 0 {
		e.Confidence = 0
	} else if e.Confidence > 1 {
		e.Confidence = 1
	}
	return e
}

// TextBlock is one positioned text fragment from the OCR engine.
type TextBlock struct {
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence"`
}

package model

import (
	"encoding/json"
	"math"
	"testing"
)

func TestLayoutType_IsCore(t *testing.T) {
	cores := []LayoutType{LayoutFigure, LayoutImage, LayoutTable, LayoutFormula, LayoutAlgorithm}
	for _, typ := range cores {
		if !typ.IsCore() {
			t.Errorf("%s should be core", typ)
		}
		if typ.IsMetadata() {
			t.Errorf("%s should not be metadata", typ)
		}
	}

	meta := []LayoutType{LayoutFigureTitle, LayoutFigureCaption, LayoutTableCaption, LayoutNumber}
	for _, typ := range meta {
		if !typ.IsMetadata() {
			t.Errorf("%s should be metadata", typ)
		}
	}

	if LayoutText.IsCore() || LayoutText.IsMetadata() {
		t.Error("text is neither core nor metadata")
	}
}

func TestRawElement_Sanitize(t *testing.T) {
	e := RawElement{
		Type:       LayoutFigure,
		BBox:       BoundingBox{X: 10, Y: 10, Width: -50, Height: 20},
		Confidence: 1.7,
	}

	s := e.Sanitize()
	if s.BBox.Width != 0 {
		t.Errorf("width = %d, want 0", s.BBox.Width)
	}
	if s.Confidence != 1 {
		t.Errorf("confidence = %v, want 1", s.Confidence)
	}

	e.Confidence = math.NaN()
	if got := e.Sanitize().Confidence; got != 0 {
		t.Errorf("NaN confidence = %v, want 0", got)
	}
	e.Confidence = math.Inf(1)
	if got := e.Sanitize().Confidence; got != 0 {
		t.Errorf("Inf confidence = %v, want 0", got)
	}
	e.Confidence = -0.2
	if got := e.Sanitize().Confidence; got != 0 {
		t.Errorf("negative confidence = %v, want 0", got)
	}
}

func TestReferenceType_JSON(t *testing.T) {
	data, err := json.Marshal(ReferenceEquation)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"equation"` {
		t.Errorf("marshaled = %s, want \"equation\"", data)
	}

	var rt ReferenceType
	if err := json.Unmarshal([]byte(`"table"`), &rt); err != nil {
		t.Fatal(err)
	}
	if rt != ReferenceTable {
		t.Errorf("unmarshaled = %v, want table", rt)
	}

	if err := json.Unmarshal([]byte(`"nonsense"`), &rt); err != nil {
		t.Fatal(err)
	}
	if rt != ReferenceUnknown {
		t.Errorf("unknown string should map to ReferenceUnknown, got %v", rt)
	}
}

func TestReference_JSONFieldNames(t *testing.T) {
	ref := Reference{
		Text:      "Fig. 3",
		PageIndex: 2,
		Type:      ReferenceFigure,
	}
	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["page_idx"]; !ok {
		t.Error("expected page_idx key")
	}
	if _, ok := m["not_matched"]; !ok {
		t.Error("expected not_matched key")
	}
	if _, ok := m["figure_id"]; ok {
		t.Error("empty figure_id should be omitted")
	}
}

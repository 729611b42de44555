package mapping

import (
	"testing"

	"github.com/tsawler/figref/model"
)

func ref(text string, page int, bbox model.BoundingBox, typ model.ReferenceType, id string) model.Reference {
	return model.Reference{
		Text:        text,
		BBox:        bbox,
		PageIndex:   page,
		Type:        typ,
		ExtractedID: id,
	}
}

func fig(figureID string, typ model.ReferenceType, page int, bbox model.BoundingBox, text string) model.Figure {
	return model.Figure{
		FigureID:      figureID,
		Type:          model.LayoutFigure,
		ReferenceType: typ,
		BBox:          bbox,
		PageIndex:     page,
		Text:          text,
	}
}

func TestMapper_Resolve_NoFigures(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("Figure 1", 0, model.NewBoundingBox(10, 10, 50, 12), model.ReferenceFigure, "1"),
		ref("Table 2", 1, model.NewBoundingBox(10, 40, 50, 12), model.ReferenceTable, "2"),
	}

	out := m.Resolve(in, nil)
	if len(out) != len(in) {
		t.Fatalf("expected %d references, got %d", len(in), len(out))
	}
	for i, r := range out {
		if !r.NotMatched {
			t.Errorf("reference %d: expected NotMatched", i)
		}
		if r.FigureID != "" {
			t.Errorf("reference %d: expected empty FigureID, got %q", i, r.FigureID)
		}
	}
}

func TestMapper_Resolve_NoReferences(t *testing.T) {
	m := NewMapper()
	figs := []model.Figure{
		fig("1", model.ReferenceFigure, 0, model.NewBoundingBox(0, 100, 200, 150), "Figure 1. Overview"),
	}

	out := m.Resolve(nil, figs)
	if len(out) != 0 {
		t.Fatalf("expected no output references, got %d", len(out))
	}
}

func TestMapper_Resolve_ExactIDMatch(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("Figure 2", 0, model.NewBoundingBox(10, 10, 50, 12), model.ReferenceFigure, "2"),
	}
	figs := []model.Figure{
		fig("1", model.ReferenceFigure, 0, model.NewBoundingBox(0, 600, 200, 150), "Figure 1. Setup"),
		fig("2", model.ReferenceFigure, 0, model.NewBoundingBox(0, 900, 200, 150), "Figure 2. Results"),
	}

	out := m.Resolve(in, figs)
	if out[0].NotMatched {
		t.Fatal("expected reference to match")
	}
	if out[0].FigureID != "2" {
		t.Errorf("expected FigureID 2, got %q", out[0].FigureID)
	}
}

func TestMapper_Resolve_SuffixStrippedMatch(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("Fig. 1.2", 0, model.NewBoundingBox(10, 10, 50, 12), model.ReferenceFigure, "1.2"),
	}
	figs := []model.Figure{
		fig("1.2a", model.ReferenceFigure, 2, model.NewBoundingBox(0, 100, 200, 150), "Figure 1.2a detail view"),
	}

	out := m.Resolve(in, figs)
	if out[0].NotMatched || out[0].FigureID != "1.2a" {
		t.Errorf("expected match to 1.2a, got %+v", out[0])
	}
}

func TestMapper_Resolve_TypeIncompatible(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("Table 1", 0, model.NewBoundingBox(10, 10, 50, 12), model.ReferenceTable, "1"),
	}
	figs := []model.Figure{
		fig("1", model.ReferenceEquation, 0, model.NewBoundingBox(10, 30, 200, 40), "(1)"),
	}

	out := m.Resolve(in, figs)
	if !out[0].NotMatched {
		t.Errorf("table reference must not bind to an equation figure, got %q", out[0].FigureID)
	}
}

func TestMapper_Resolve_ExampleBindsToFigure(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("Example 3", 0, model.NewBoundingBox(10, 10, 60, 12), model.ReferenceExample, "3"),
	}
	figs := []model.Figure{
		fig("3", model.ReferenceFigure, 0, model.NewBoundingBox(0, 200, 200, 150), "Example 3 walkthrough"),
	}

	out := m.Resolve(in, figs)
	if out[0].NotMatched || out[0].FigureID != "3" {
		t.Errorf("expected cross-type match to figure 3, got %+v", out[0])
	}
}

func TestMapper_Resolve_AcceptThresholdIsStrict(t *testing.T) {
	// A lone next-page edge totals exactly the acceptance threshold and
	// must be rejected.
	m := NewMapper()
	in := []model.Reference{
		ref("see above", 3, model.NewBoundingBox(10, 10, 50, 12), model.ReferenceFigure, ""),
	}
	figs := []model.Figure{
		fig("fig_2_400", model.ReferenceFigure, 2, model.NewBoundingBox(0, 400, 200, 150), ""),
	}

	out := m.Resolve(in, figs)
	if !out[0].NotMatched {
		t.Errorf("weight equal to threshold must not match, got %q", out[0].FigureID)
	}
}

func TestMapper_Resolve_TieBreaksToFirstFigure(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("Figure 5", 1, model.NewBoundingBox(10, 10, 50, 12), model.ReferenceFigure, "5"),
	}
	// Two figures with identical exact-ID matches; the earlier one wins.
	figs := []model.Figure{
		fig("5", model.ReferenceFigure, 4, model.NewBoundingBox(0, 100, 200, 150), ""),
		fig("5", model.ReferenceFigure, 6, model.NewBoundingBox(0, 100, 200, 150), ""),
	}

	out := m.Resolve(in, figs)
	if out[0].NotMatched {
		t.Fatal("expected a match")
	}
	out2 := m.Resolve(in, figs)
	if out[0].FigureID != out2[0].FigureID {
		t.Error("resolution must be deterministic across runs")
	}
	if out[0].FigureID != figs[0].FigureID {
		t.Errorf("tie should resolve to the first figure, got %q", out[0].FigureID)
	}
}

func TestMapper_Resolve_SamePageProximity(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("the chart below", 0, model.NewBoundingBox(100, 100, 80, 12), model.ReferenceFigure, ""),
	}
	figs := []model.Figure{
		// Near the reference on the same page.
		fig("fig_0_180", model.ReferenceFigure, 0, model.NewBoundingBox(80, 180, 200, 150), ""),
		// Far away on another page.
		fig("fig_5_100", model.ReferenceFigure, 5, model.NewBoundingBox(0, 100, 200, 150), ""),
	}

	out := m.Resolve(in, figs)
	if out[0].NotMatched {
		t.Fatal("expected nearby figure to match")
	}
	if out[0].FigureID != "fig_0_180" {
		t.Errorf("expected same-page figure, got %q", out[0].FigureID)
	}
}

func TestMapper_Resolve_DerivesIDFromText(t *testing.T) {
	m := NewMapper()
	// Extractor fields left blank; the mapper falls back to parsing the
	// citation text itself.
	in := []model.Reference{
		{Text: "Figure 7", BBox: model.NewBoundingBox(10, 10, 50, 12), PageIndex: 0},
	}
	figs := []model.Figure{
		fig("7", model.ReferenceFigure, 3, model.NewBoundingBox(0, 100, 200, 150), "Figure 7. Pipeline"),
	}

	out := m.Resolve(in, figs)
	if out[0].NotMatched || out[0].FigureID != "7" {
		t.Errorf("expected derived ID to match figure 7, got %+v", out[0])
	}
}

func TestMapper_Resolve_SectionNumberScenario(t *testing.T) {
	// "Eq. (2.31)" must bind to the equation figure 2.31 and not to a
	// same-page table, even when the table sits closer.
	m := NewMapper()
	in := []model.Reference{
		ref("Eq. (2.31)", 0, model.NewBoundingBox(100, 500, 70, 12), model.ReferenceEquation, "2.31"),
	}
	figs := []model.Figure{
		fig("2.31", model.ReferenceTable, 0, model.NewBoundingBox(80, 520, 300, 200), "Table 2.31 parameters"),
		fig("2.31", model.ReferenceEquation, 0, model.NewBoundingBox(80, 900, 300, 60), "(2.31)"),
	}

	out := m.Resolve(in, figs)
	if out[0].NotMatched {
		t.Fatal("expected a match")
	}
	if out[0].FigureID != "2.31" || figs[1].FigureID != out[0].FigureID {
		t.Errorf("unexpected match %q", out[0].FigureID)
	}
	// Confirm the equation, not the table, carried the assignment by
	// disallowing table candidates entirely.
	if typesCompatible(model.ReferenceEquation, model.ReferenceTable) {
		t.Error("equation references must not be compatible with tables")
	}
}

func TestMapper_ResolveWithStats(t *testing.T) {
	m := NewMapper()
	in := []model.Reference{
		ref("Figure 1", 0, model.NewBoundingBox(10, 10, 50, 12), model.ReferenceFigure, "1"),
	}
	figs := []model.Figure{
		fig("1", model.ReferenceFigure, 0, model.NewBoundingBox(0, 100, 200, 150), "Figure 1"),
	}

	out, stats := m.ResolveWithStats(in, figs)
	if out[0].NotMatched {
		t.Fatal("expected a match")
	}
	if stats.References != 1 || stats.Figures != 1 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if stats.Edges == 0 {
		t.Error("expected at least one edge in the graph")
	}
}

func TestStripAlphaSuffix(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1.2a", "1.2"},
		{"1.2", "1.2"},
		{"3b", "3"},
		{"abc", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := stripAlphaSuffix(tc.in); got != tc.want {
			t.Errorf("stripAlphaSuffix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	a := wordSet("network throughput over time")
	b := wordSet("throughput over time by region")
	sim := jaccard(a, b)
	if sim <= 0 || sim >= 1 {
		t.Errorf("expected partial overlap, got %v", sim)
	}
	if jaccard(a, a) != 1 {
		t.Error("identical sets must have similarity 1")
	}
	if jaccard(a, wordSet("")) != 0 {
		t.Error("empty set must have similarity 0")
	}
}

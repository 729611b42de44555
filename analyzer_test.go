package figref

import (
	"errors"
	"testing"

	"github.com/tsawler/figref/model"
)

type fakeDetector struct {
	pages map[string][]model.RawElement
	err   error
}

func (d *fakeDetector) DetectLayout(imagePath string) ([]model.RawElement, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.pages[imagePath], nil
}

type fakeRecognizer struct {
	pages map[string][]model.TextBlock
	err   error
}

func (r *fakeRecognizer) RecognizeText(imagePath string) ([]model.TextBlock, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.pages[imagePath], nil
}

func samplePage() PageInput {
	return PageInput{
		Width:  1240,
		Height: 1754,
		Elements: []model.RawElement{
			{
				Type:       model.LayoutFigure,
				BBox:       model.NewBoundingBox(100, 200, 600, 400),
				Confidence: 0.95,
			},
			{
				Type:       model.LayoutFigureCaption,
				BBox:       model.NewBoundingBox(100, 620, 600, 40),
				Text:       "Figure 1. System overview",
				Confidence: 0.9,
			},
		},
		Blocks: []model.TextBlock{
			{
				Text:       "The architecture is shown in Figure 1.",
				BBox:       model.NewBoundingBox(100, 900, 700, 24),
				Confidence: 0.92,
			},
		},
	}
}

func TestAnalyzer_AnalyzePages_Empty(t *testing.T) {
	_, _, err := NewAnalyzer().AnalyzePages(nil)
	if !errors.Is(err, ErrNoPages) {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
}

func TestAnalyzer_AnalyzePages_ResolvesCitation(t *testing.T) {
	result, warnings, err := NewAnalyzer().AnalyzePages([]PageInput{samplePage()})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}
	if result.DocumentID == "" {
		t.Error("expected a document ID")
	}
	if len(result.Figures) != 1 {
		t.Fatalf("expected 1 figure, got %d", len(result.Figures))
	}
	figure := result.Figures[0]
	if figure.FigureID != "1" {
		t.Errorf("expected caption-extracted ID 1, got %q", figure.FigureID)
	}
	if figure.IDSource != model.IDSourceExtracted {
		t.Errorf("expected extracted ID source, got %v", figure.IDSource)
	}

	if len(result.References) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(result.References))
	}
	reference := result.References[0]
	if reference.NotMatched {
		t.Fatal("expected citation to resolve")
	}
	if reference.FigureID != figure.FigureID {
		t.Errorf("citation resolved to %q, want %q", reference.FigureID, figure.FigureID)
	}

	if result.Stats.Resolved != 1 || result.Stats.Unresolved != 0 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}
	if result.Stats.Pages != 1 || result.Stats.Figures != 1 {
		t.Errorf("unexpected stats %+v", result.Stats)
	}
}

func TestAnalyzer_AnalyzePages_SequenceNumbers(t *testing.T) {
	page := PageInput{
		Elements: []model.RawElement{
			{
				Type:       model.LayoutTable,
				BBox:       model.NewBoundingBox(100, 900, 600, 300),
				Confidence: 0.9,
			},
			{
				Type:       model.LayoutTableCaption,
				BBox:       model.NewBoundingBox(100, 860, 600, 30),
				Text:       "Table 2. Lower table",
				Confidence: 0.9,
			},
			{
				Type:       model.LayoutTable,
				BBox:       model.NewBoundingBox(100, 200, 600, 300),
				Confidence: 0.9,
			},
			{
				Type:       model.LayoutTableCaption,
				BBox:       model.NewBoundingBox(100, 160, 600, 30),
				Text:       "Table 1. Upper table",
				Confidence: 0.9,
			},
		},
	}

	result, _, err := NewAnalyzer().AnalyzePages([]PageInput{page})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Figures) != 2 {
		t.Fatalf("expected 2 figures, got %d", len(result.Figures))
	}
	for _, figure := range result.Figures {
		if figure.TotalInPage != 2 {
			t.Errorf("figure %q: TotalInPage = %d, want 2", figure.FigureID, figure.TotalInPage)
		}
	}

	var upper, lower model.Figure
	for _, figure := range result.Figures {
		if figure.BBox.Y < 500 {
			upper = figure
		} else {
			lower = figure
		}
	}
	if upper.SequenceInPage != 1 || lower.SequenceInPage != 2 {
		t.Errorf("sequence: upper=%d lower=%d, want 1 and 2", upper.SequenceInPage, lower.SequenceInPage)
	}
}

func TestAnalyzer_AnalyzeDocument(t *testing.T) {
	detector := &fakeDetector{pages: map[string][]model.RawElement{
		"page0.png": samplePage().Elements,
	}}
	recognizer := &fakeRecognizer{pages: map[string][]model.TextBlock{
		"page0.png": samplePage().Blocks,
	}}

	result, warnings, err := NewAnalyzer().AnalyzeDocument([]string{"page0.png"}, detector, recognizer)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}
	if len(result.Figures) != 1 || len(result.References) != 1 {
		t.Fatalf("expected 1 figure and 1 reference, got %d and %d", len(result.Figures), len(result.References))
	}
	if result.References[0].NotMatched {
		t.Error("expected citation to resolve")
	}
}

func TestAnalyzer_AnalyzeDocument_DetectorFailureDegrades(t *testing.T) {
	detector := &fakeDetector{err: errors.New("model unavailable")}

	result, warnings, err := NewAnalyzer().AnalyzeDocument([]string{"page0.png"}, detector, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].Stage != "detect" || warnings[0].PageIndex != 0 {
		t.Errorf("unexpected warning %+v", warnings[0])
	}
	if len(result.Figures) != 0 {
		t.Errorf("expected no figures, got %d", len(result.Figures))
	}
}

func TestAnalyzer_AnalyzeDocument_NilDetector(t *testing.T) {
	_, _, err := NewAnalyzer().AnalyzeDocument([]string{"page0.png"}, nil, nil)
	if err == nil {
		t.Fatal("expected an error for nil detector")
	}
}

func TestFormatWarnings(t *testing.T) {
	if FormatWarnings(nil) != "" {
		t.Error("no warnings should format to an empty string")
	}
	got := FormatWarnings([]Warning{
		{Stage: "detect", PageIndex: 2, Message: "timeout"},
		{Stage: "render", PageIndex: -1, Message: "bad DPI"},
	})
	want := "detect (page 2): timeout; render: bad DPI"
	if got != want {
		t.Errorf("FormatWarnings = %q, want %q", got, want)
	}
}

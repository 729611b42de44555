package figref

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tsawler/figref/grouping"
	"github.com/tsawler/figref/mapping"
	"github.com/tsawler/figref/model"
	"github.com/tsawler/figref/refs"
)

// ErrNoPages is returned when analysis is requested for an empty document.
var ErrNoPages = errors.New("figref: document has no pages")

// Warning describes a non-fatal issue encountered during analysis, such as
// a page whose detector or recognizer call failed. The document result is
// still produced; the affected page simply contributes nothing.
type Warning struct {
	// Stage names the processing step that produced the warning, for
	// example "detect" or "recognize".
	Stage string

	// PageIndex is the 0-based page the warning applies to, or -1 when it
	// is not page specific.
	PageIndex int

	// Message is a human-readable description.
	Message string
}

// FormatWarnings joins warnings into a single readable string.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, 0, len(warnings))
	for _, w := range warnings {
		if w.PageIndex >= 0 {
			parts = append(parts, fmt.Sprintf("%s (page %d): %s", w.Stage, w.PageIndex, w.Message))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", w.Stage, w.Message))
		}
	}
	return strings.Join(parts, "; ")
}

// PageInput carries the per-page inputs to analysis: the detected layout
// elements and the recognized text lines, plus the rendered page size in
// pixels. Either slice may be empty.
type PageInput struct {
	Elements []model.RawElement `json:"elements"`
	Blocks   []model.TextBlock  `json:"blocks"`
	Width    int                `json:"width"`
	Height   int                `json:"height"`
}

// DocumentStats summarizes an analysis run.
type DocumentStats struct {
	Pages      int           `json:"pages"`
	Elements   int           `json:"elements"`
	Figures    int           `json:"figures"`
	References int           `json:"references"`
	Resolved   int           `json:"resolved"`
	Unresolved int           `json:"unresolved"`
	Mapping    mapping.Stats `json:"mapping"`
}

// DocumentResult is the output of document analysis: every grouped figure
// and every citation found, with citations annotated by the figure they
// resolve to.
type DocumentResult struct {
	// DocumentID uniquely identifies this analysis run.
	DocumentID string `json:"document_id"`

	Figures    []model.Figure    `json:"figures"`
	References []model.Reference `json:"references"`
	Pages      int               `json:"pages"`
	Stats      DocumentStats     `json:"stats"`
}

// Analyzer runs the full figure pipeline over a document: grouping layout
// elements into figures, extracting citations from text, numbering figures
// within each page, and resolving citations to figures. An Analyzer is
// stateless between calls and safe to reuse.
type Analyzer struct {
	options   Options
	grouper   *grouping.Grouper
	extractor *refs.Extractor
	mapper    *mapping.Mapper
}

// NewAnalyzer creates an analyzer with default options.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithOptions(DefaultOptions())
}

// NewAnalyzerWithOptions creates an analyzer with the specified options.
func NewAnalyzerWithOptions(options Options) *Analyzer {
	return &Analyzer{
		options:   options,
		grouper:   grouping.NewGrouperWithConfig(options.Grouping),
		extractor: refs.NewExtractor(),
		mapper:    mapping.NewMapperWithConfig(options.Mapping),
	}
}

// AnalyzePages runs analysis over pre-detected page inputs. Pages are
// processed independently for grouping and extraction; resolution then runs
// once across the whole document so that cross-page citations work.
//
// Returns ErrNoPages when pages is empty.
func (a *Analyzer) AnalyzePages(pages []PageInput) (*DocumentResult, []Warning, error) {
	if len(pages) == 0 {
		return nil, nil, ErrNoPages
	}

	var warnings []Warning
	var figures []model.Figure
	var references []model.Reference
	elementCount := 0

	for i, page := range pages {
		elements := make([]model.RawElement, len(page.Elements))
		for j, elem := range page.Elements {
			elements[j] = elem.Sanitize()
		}
		elementCount += len(elements)

		figures = append(figures, a.grouper.Group(elements, i)...)
		references = append(references, a.extractor.Extract(page.Blocks, i)...)
	}

	numberFigures(figures)

	resolved, mapStats := a.mapper.ResolveWithStats(references, figures)

	stats := DocumentStats{
		Pages:      len(pages),
		Elements:   elementCount,
		Figures:    len(figures),
		References: len(resolved),
		Mapping:    mapStats,
	}
	for _, ref := range resolved {
		if ref.NotMatched {
			stats.Unresolved++
		} else {
			stats.Resolved++
		}
	}

	result := &DocumentResult{
		DocumentID: uuid.NewString(),
		Figures:    figures,
		References: resolved,
		Pages:      len(pages),
		Stats:      stats,
	}
	return result, warnings, nil
}

// AnalyzeDocument renders analysis for a document given as page images,
// driving the supplied detector and recognizer. A failed detector or
// recognizer call degrades to a warning; the page contributes no elements
// or text but the document is still analyzed.
//
// recognizer may be nil, in which case citation extraction is skipped and
// every figure keeps a generated or caption-extracted identifier only.
func (a *Analyzer) AnalyzeDocument(imagePaths []string, detector LayoutDetector, recognizer TextRecognizer) (*DocumentResult, []Warning, error) {
	if len(imagePaths) == 0 {
		return nil, nil, ErrNoPages
	}
	if detector == nil {
		return nil, nil, errors.New("figref: nil layout detector")
	}

	var warnings []Warning
	pages := make([]PageInput, len(imagePaths))

	for i, path := range imagePaths {
		elements, err := detector.DetectLayout(path)
		if err != nil {
			warnings = append(warnings, Warning{Stage: "detect", PageIndex: i, Message: err.Error()})
		}
		pages[i].Elements = elements

		if recognizer == nil {
			continue
		}
		blocks, err := recognizer.RecognizeText(path)
		if err != nil {
			warnings = append(warnings, Warning{Stage: "recognize", PageIndex: i, Message: err.Error()})
		}
		pages[i].Blocks = blocks
	}

	result, analyzeWarnings, err := a.AnalyzePages(pages)
	if err != nil {
		return nil, warnings, err
	}
	return result, append(warnings, analyzeWarnings...), nil
}

// numberFigures assigns top-to-bottom sequence numbers to figures of the
// same reference type within each page. "Table 2 of 3 on page 4" style
// positions survive even when captions carry no usable identifier.
func numberFigures(figures []model.Figure) {
	type key struct {
		page int
		typ  model.ReferenceType
	}

	byKey := make(map[key][]int)
	for i, fig := range figures {
		k := key{fig.PageIndex, fig.ReferenceType}
		byKey[k] = append(byKey[k], i)
	}

	for _, indexes := range byKey {
		sort.SliceStable(indexes, func(a, b int) bool {
			return figures[indexes[a]].BBox.Y < figures[indexes[b]].BBox.Y
		})
		for seq, idx := range indexes {
			figures[idx].SequenceInPage = seq + 1
			figures[idx].TotalInPage = len(indexes)
		}
	}
}

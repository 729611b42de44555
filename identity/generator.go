package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tsawler/figref/model"
)

const num = `\d+(?:\.\d+)*`

// typedPattern pairs a caption ID pattern with the reference type it maps to.
type typedPattern struct {
	re  *regexp.Regexp
	typ model.ReferenceType
}

// captionPatterns extend the citation pattern families with localized
// keyword variants and layout-model synonyms (chart, diagram, picture).
// Order is priority order: the first pattern that matches anywhere in the
// text fixes both the numeric ID and the reference type.
var captionPatterns = []typedPattern{
	{regexp.MustCompile(`(?i)fig(?:ure)?\.?\s*(` + num + `)`), model.ReferenceFigure},
	{regexp.MustCompile(`그림\.?\s*(` + num + `)`), model.ReferenceFigure},
	{regexp.MustCompile(`(?i)tab(?:le)?\.?\s*(` + num + `)`), model.ReferenceTable},
	{regexp.MustCompile(`표\.?\s*(` + num + `)`), model.ReferenceTable},
	{regexp.MustCompile(`(?i)eq(?:uation)?\.?\s*\((` + num + `)\)`), model.ReferenceEquation},
	{regexp.MustCompile(`(?i)eq(?:uation)?\.?\s*(` + num + `)`), model.ReferenceEquation},
	{regexp.MustCompile(`식\.?\s*\((` + num + `)\)`), model.ReferenceEquation},
	{regexp.MustCompile(`수식\.?\s*(` + num + `)`), model.ReferenceEquation},
	{regexp.MustCompile(`(?i)formula\.?\s*(` + num + `)`), model.ReferenceEquation},
	{regexp.MustCompile(`\((` + num + `)\)`), model.ReferenceEquation},
	{regexp.MustCompile(`(?i)ex(?:ample)?\.?\s*(` + num + `)`), model.ReferenceExample},
	{regexp.MustCompile(`예제\.?\s*(` + num + `)`), model.ReferenceExample},
	{regexp.MustCompile(`(?i)alg(?:orithm)?\.?\s*(` + num + `)`), model.ReferenceAlgorithm},
	{regexp.MustCompile(`알고리즘\.?\s*(` + num + `)`), model.ReferenceAlgorithm},
	{regexp.MustCompile(`(?i)chart\.?\s*(` + num + `)`), model.ReferenceFigure},
	{regexp.MustCompile(`(?i)graph\.?\s*(` + num + `)`), model.ReferenceFigure},
	{regexp.MustCompile(`(?i)diagram\.?\s*(` + num + `)`), model.ReferenceFigure},
	{regexp.MustCompile(`(?i)image\.?\s*(` + num + `)`), model.ReferenceFigure},
	{regexp.MustCompile(`(?i)picture\.?\s*(` + num + `)`), model.ReferenceFigure},
}

// layoutTypeMapping derives a reference type from the layout model's class
// name when the element text carries no usable pattern.
var layoutTypeMapping = map[model.LayoutType]model.ReferenceType{
	model.LayoutFigure:        model.ReferenceFigure,
	model.LayoutFigureTitle:   model.ReferenceFigure,
	model.LayoutFigureCaption: model.ReferenceFigure,
	model.LayoutImage:         model.ReferenceFigure,
	model.LayoutTable:         model.ReferenceTable,
	model.LayoutTableCaption:  model.ReferenceTable,
	model.LayoutFormula:       model.ReferenceEquation,
	model.LayoutNumber:        model.ReferenceEquation,
	model.LayoutAlgorithm:     model.ReferenceAlgorithm,
	"chart":                   model.ReferenceFigure,
	"graph":                   model.ReferenceFigure,
	"diagram":                 model.ReferenceFigure,
}

// typePrefix maps a reference type to the short prefix used in fallback IDs.
var typePrefix = map[model.ReferenceType]string{
	model.ReferenceFigure:    "fig",
	model.ReferenceTable:     "tab",
	model.ReferenceEquation:  "eq",
	model.ReferenceExample:   "ex",
	model.ReferenceAlgorithm: "alg",
}

// Generator produces figure identities: a human-meaningful ID and semantic
// type extracted from caption text, or a stable fallback ID synthesized from
// page position.
type Generator struct{}

// NewGenerator creates a new identity generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Identify builds a Figure seed from a single layout detection. The element
// is sanitized first, so malformed geometry or confidence values degrade to
// zeros rather than failing.
func (g *Generator) Identify(elem model.RawElement, pageIndex int) model.Figure {
	elem = elem.Sanitize()
	if pageIndex < 0 {
		pageIndex = 0
	}

	text := strings.TrimSpace(elem.Text)

	refType := g.ReferenceTypeFor(elem.Type, text)

	figureID, extractedType, ok := g.ExtractTypedID(text)
	source := model.IDSourceExtracted
	if ok {
		refType = extractedType
	} else {
		figureID = FallbackID(refType, pageIndex, elem.BBox)
		source = model.IDSourceGenerated
	}

	return model.Figure{
		FigureID:      figureID,
		Type:          elem.Type,
		ReferenceType: refType,
		BBox:          elem.BBox,
		PageIndex:     pageIndex,
		Text:          text,
		Confidence:    elem.Confidence,
		IDSource:      source,
	}
}

// ExtractTypedID extracts a numeric ID and the reference type implied by the
// matching pattern. The first pattern in priority order wins.
func (g *Generator) ExtractTypedID(text string) (id string, typ model.ReferenceType, ok bool) {
	if text == "" {
		return "", model.ReferenceUnknown, false
	}
	for _, p := range captionPatterns {
		if m := p.re.FindStringSubmatch(text); m != nil {
			return m[1], p.typ, true
		}
	}
	return "", model.ReferenceUnknown, false
}

// ReferenceTypeFor derives a reference type from the layout class, falling
// back to keyword hints in the text and finally to figure.
func (g *Generator) ReferenceTypeFor(layout model.LayoutType, text string) model.ReferenceType {
	if rt, ok := layoutTypeMapping[model.LayoutType(strings.ToLower(string(layout)))]; ok {
		return rt
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "fig", "figure", "그림"):
		return model.ReferenceFigure
	case containsAny(lower, "table", "tab", "표"):
		return model.ReferenceTable
	case containsAny(lower, "eq", "equation", "formula", "식", "수식"):
		return model.ReferenceEquation
	case containsAny(lower, "example", "ex.", "예제"):
		return model.ReferenceExample
	case containsAny(lower, "algorithm", "alg", "알고리즘"):
		return model.ReferenceAlgorithm
	}
	return model.ReferenceFigure
}

// FallbackID synthesizes a deterministic ID from type and page position, in
// the form "fig_0_150". Two distinct elements on the same page only collide
// when they share both type and vertical position, which makes them visually
// identical by construction.
func FallbackID(typ model.ReferenceType, pageIndex int, bbox model.BoundingBox) string {
	prefix, ok := typePrefix[typ]
	if !ok {
		prefix = "unk"
	}
	if pageIndex < 0 {
		pageIndex = 0
	}
	return fmt.Sprintf("%s_%d_%d", prefix, pageIndex, bbox.Y)
}

// containsAny reports whether s contains at least one of the substrings.
func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

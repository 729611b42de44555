package refs

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/figref/model"
)

// Extractor scans OCR text fragments for typed citation patterns and
// produces References with estimated sub-bounding-boxes.
type Extractor struct{}

// NewExtractor creates a new reference extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract finds all citations in the given text blocks and returns one
// Reference per match, in fragment order and then match order within each
// fragment. The reference bounding box is estimated by linearly
// interpolating the match's character span across the fragment's width.
//
// Extract never fails: empty or missing text yields no references, and a
// malformed fragment bounding box is reset to the zero box.
func (e *Extractor) Extract(blocks []model.TextBlock, pageIndex int) []model.Reference {
	if pageIndex < 0 {
		pageIndex = 0
	}

	var out []model.Reference
	for _, block := range blocks {
		text := Normalize(block.Text)
		if text == "" {
			continue
		}

		bbox := sanitizeBlockBBox(block.BBox)

		for _, m := range FindAll(text) {
			out = append(out, model.Reference{
				Text:        m.Text,
				BBox:        estimateSpan(bbox, len(text), m.Start, m.End),
				PageIndex:   pageIndex,
				Type:        m.Type,
				ExtractedID: m.ID,
			})
		}
	}
	return out
}

// Normalize applies NFKC normalization and trims surrounding whitespace.
// OCR output carries full-width digits and ligature forms that would
// otherwise slip past the citation patterns.
func Normalize(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// sanitizeBlockBBox resets a malformed fragment box to the zero box.
func sanitizeBlockBBox(b model.BoundingBox) model.BoundingBox {
	if b.Width < 0 || b.Height < 0 {
		return model.BoundingBox{}
	}
	return b
}

// estimateSpan interpolates a character span across the fragment's full
// width. The vertical extent is inherited unchanged from the fragment;
// the result is clamped so width >= 1 and x >= 0.
func estimateSpan(frag model.BoundingBox, textLen, start, end int) model.BoundingBox {
	if textLen <= 0 {
		return frag
	}

	charWidth := float64(frag.Width) / float64(textLen)
	x := frag.X + int(float64(start)*charWidth)
	w := int(float64(end-start) * charWidth)

	if x < 0 {
		x = 0
	}
	if w < 1 {
		w = 1
	}

	return model.BoundingBox{X: x, Y: frag.Y, Width: w, Height: frag.Height}
}

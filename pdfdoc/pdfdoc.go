// Package pdfdoc extracts positioned text lines from born-digital PDFs, as
// an alternative to OCR when the document carries a real text layer.
//
// Coordinates are converted from PDF points (origin bottom-left) to the
// top-left pixel space the rest of the pipeline works in, so that text
// lines from this package line up with layout detections on page images
// rendered at the same DPI.
package pdfdoc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/figref/model"
)

// Config holds settings for PDF text extraction.
type Config struct {
	// DPI is the resolution the page images were rendered at. Point
	// coordinates are scaled by DPI/72 to match them.
	DPI int

	// LineTolerance is the maximum baseline difference in points for two
	// characters to be considered part of the same line.
	LineTolerance float64
}

// DefaultConfig returns the default extraction configuration.
func DefaultConfig() Config {
	return Config{
		DPI:           150,
		LineTolerance: 2.0,
	}
}

// Source reads text from an open PDF file. It must be closed when done.
type Source struct {
	closer interface{ Close() error }
	reader *pdf.Reader
	config Config
}

// Open opens a PDF file with default configuration.
func Open(path string) (*Source, error) {
	return OpenWithConfig(path, DefaultConfig())
}

// OpenWithConfig opens a PDF file with the specified configuration.
func OpenWithConfig(path string, config Config) (*Source, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	return &Source{closer: f, reader: reader, config: config}, nil
}

// Close releases the underlying file.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// PageCount returns the number of pages in the document.
func (s *Source) PageCount() int {
	return s.reader.NumPage()
}

// TextBlocks returns one block per assembled text line on the page,
// positioned in top-left pixel coordinates. pageIndex is 0-based.
func (s *Source) TextBlocks(pageIndex int) ([]model.TextBlock, error) {
	if pageIndex < 0 || pageIndex >= s.reader.NumPage() {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", pageIndex, s.reader.NumPage())
	}

	page := s.reader.Page(pageIndex + 1)
	if page.V.IsNull() {
		return nil, nil
	}

	pageHeight := mediaBoxHeight(page)
	scale := float64(s.config.DPI) / 72

	lines := assembleLines(page.Content().Text, s.config.LineTolerance)

	blocks := make([]model.TextBlock, 0, len(lines))
	for _, line := range lines {
		text := line.text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		// Flip to a top-left origin before scaling to pixels. The line's Y
		// is its baseline; subtracting the font size approximates the top.
		top := pageHeight - line.y - line.fontSize
		blocks = append(blocks, model.TextBlock{
			Text: text,
			BBox: model.NewBoundingBox(
				int(line.minX*scale),
				int(top*scale),
				int((line.maxX-line.minX)*scale),
				int(line.fontSize*scale),
			),
			Confidence: 1,
		})
	}
	return blocks, nil
}

// mediaBoxHeight reads the page height in points, falling back to US Letter
// when the media box is missing or malformed.
func mediaBoxHeight(page pdf.Page) float64 {
	box := page.V.Key("MediaBox")
	if box.IsNull() || box.Len() < 4 {
		return 792
	}
	height := box.Index(3).Float64() - box.Index(1).Float64()
	if height <= 0 {
		return 792
	}
	return height
}

// line is a cluster of characters sharing a baseline.
type line struct {
	y        float64
	fontSize float64
	minX     float64
	maxX     float64
	chars    []pdf.Text
}

// assembleLines clusters characters by baseline and orders each cluster by
// X. Clusters are returned in reading order, top of page first.
func assembleLines(chars []pdf.Text, tolerance float64) []*line {
	var lines []*line

	for _, ch := range chars {
		var target *line
		for _, ln := range lines {
			if absFloat(ln.y-ch.Y) <= tolerance {
				target = ln
				break
			}
		}
		if target == nil {
			target = &line{y: ch.Y, minX: ch.X, maxX: ch.X + ch.W, fontSize: ch.FontSize}
			lines = append(lines, target)
		}
		target.chars = append(target.chars, ch)
		if ch.X < target.minX {
			target.minX = ch.X
		}
		if right := ch.X + ch.W; right > target.maxX {
			target.maxX = right
		}
		if ch.FontSize > target.fontSize {
			target.fontSize = ch.FontSize
		}
	}

	for _, ln := range lines {
		sort.SliceStable(ln.chars, func(a, b int) bool {
			return ln.chars[a].X < ln.chars[b].X
		})
	}
	// Larger Y is higher on the page in PDF coordinates.
	sort.SliceStable(lines, func(a, b int) bool {
		return lines[a].y > lines[b].y
	})
	return lines
}

// text joins the line's characters, inserting a space when the horizontal
// gap between neighbors exceeds a quarter of the font size.
func (l *line) text() string {
	var b strings.Builder
	for i, ch := range l.chars {
		if i > 0 {
			prev := l.chars[i-1]
			gap := ch.X - (prev.X + prev.W)
			if gap > l.fontSize*0.25 {
				b.WriteByte(' ')
			}
		}
		b.WriteString(ch.S)
	}
	return b.String()
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

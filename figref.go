// Package figref groups detected layout elements into figures and resolves
// in-text citations to the figures they point at.
//
// Basic usage with pre-detected elements:
//
//	result, warnings, err := figref.NewAnalyzer().AnalyzePages(pages)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", figref.FormatWarnings(warnings))
//	}
//	for _, ref := range result.References {
//	    fmt.Println(ref.Text, "->", ref.FigureID)
//	}
//
// When working from rendered page images, supply a layout detector and a
// text recognizer and let the analyzer drive them:
//
//	result, warnings, err := figref.NewAnalyzer().
//	    AnalyzeDocument(imagePaths, detector, recognizer)
//
// For finer control, the lower-level grouping, refs, identity, and mapping
// packages are also available.
package figref

import "github.com/tsawler/figref/model"

// LayoutDetector locates layout elements (figures, tables, captions) on a
// rendered page image. Implementations typically wrap an external detection
// model or service.
type LayoutDetector interface {
	DetectLayout(imagePath string) ([]model.RawElement, error)
}

// TextRecognizer extracts positioned text lines from a rendered page image.
// The ocr package provides a Tesseract-backed implementation.
type TextRecognizer interface {
	RecognizeText(imagePath string) ([]model.TextBlock, error)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustResult wraps a call to AnalyzePages or AnalyzeDocument and panics if
// the error is non-nil. It discards warnings and returns just the result.
func MustResult(result *DocumentResult, _ []Warning, err error) *DocumentResult {
	if err != nil {
		panic(err)
	}
	return result
}

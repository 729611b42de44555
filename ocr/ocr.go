//go:build ocr

// Package ocr recognizes positioned text lines on rendered page images for
// citation extraction.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/figref/model"
)

// Client wraps Tesseract for text recognition. It implements the
// TextRecognizer interface expected by the analyzer.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// RecognizeText performs OCR on a page image and returns one text block per
// recognized line, with pixel bounding boxes and confidences in [0, 1].
func (c *Client) RecognizeText(imagePath string) ([]model.TextBlock, error) {
	if err := c.client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	blocks := make([]model.TextBlock, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		blocks = append(blocks, model.TextBlock{
			Text: box.Word,
			BBox: model.NewBoundingBox(
				box.Box.Min.X,
				box.Box.Min.Y,
				box.Box.Dx(),
				box.Box.Dy(),
			),
			// Tesseract reports confidence on a 0-100 scale.
			Confidence: box.Confidence / 100,
		})
	}

	return blocks, nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g., "eng+kor").
// Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}

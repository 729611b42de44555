// Package render draws detection overlays onto page images for debugging
// and review: one colored outline per layout element, labeled with its type
// and confidence.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/tsawler/figref/model"
)

// typeColors assigns each layout type a distinct outline color.
var typeColors = map[model.LayoutType]color.RGBA{
	model.LayoutFigure:        {128, 0, 128, 255},
	model.LayoutImage:         {128, 0, 128, 255},
	model.LayoutTable:         {128, 255, 128, 255},
	model.LayoutFormula:       {0, 0, 255, 255},
	model.LayoutAlgorithm:     {255, 128, 0, 255},
	model.LayoutFigureTitle:   {0, 128, 255, 255},
	model.LayoutFigureCaption: {255, 0, 0, 255},
	model.LayoutTableCaption:  {255, 0, 0, 255},
	model.LayoutNumber:        {0, 255, 255, 255},
	model.LayoutText:          {128, 128, 128, 255},
}

// defaultColor is used for layout types without an assigned color.
var defaultColor = color.RGBA{200, 200, 200, 255}

const outlineWidth = 2

// ColorFor returns the overlay color for a layout type.
func ColorFor(typ model.LayoutType) color.RGBA {
	if c, ok := typeColors[typ]; ok {
		return c
	}
	return defaultColor
}

// DrawElements copies the page image and draws a labeled outline for each
// element. The source image is not modified.
func DrawElements(src image.Image, elements []model.RawElement) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)

	for _, elem := range elements {
		c := ColorFor(elem.Type)
		r := image.Rect(elem.BBox.X, elem.BBox.Y, elem.BBox.X2(), elem.BBox.Y2())
		drawOutline(out, r, c)
		label := fmt.Sprintf("%s (%.2f)", elem.Type, elem.Confidence)
		drawLabel(out, r.Min, label, c)
	}
	return out
}

// DrawFigures copies the page image and draws each figure's union box,
// labeled with the figure's identifier.
func DrawFigures(src image.Image, figures []model.Figure) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)

	for _, fig := range figures {
		c := ColorFor(fig.Type)
		r := image.Rect(fig.BBox.X, fig.BBox.Y, fig.BBox.X2(), fig.BBox.Y2())
		drawOutline(out, r, c)
		drawLabel(out, r.Min, fig.FigureID, c)
	}
	return out
}

// DrawReferences copies the page image and draws each citation's estimated
// span. Resolved citations are labeled with their figure ID; unresolved ones
// are drawn in gray and labeled with their own text.
func DrawReferences(src image.Image, references []model.Reference) *image.RGBA {
	bounds := src.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, src, bounds.Min, draw.Src)

	for _, ref := range references {
		c := color.RGBA{0, 128, 0, 255}
		label := ref.Text + " -> " + ref.FigureID
		if ref.NotMatched {
			c = defaultColor
			label = ref.Text
		}
		r := image.Rect(ref.BBox.X, ref.BBox.Y, ref.BBox.X2(), ref.BBox.Y2())
		drawOutline(out, r, c)
		drawLabel(out, r.Min, label, c)
	}
	return out
}

// drawOutline draws a rectangle outline of outlineWidth pixels, clipped to
// the image.
func drawOutline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	top := image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+outlineWidth)
	bottom := image.Rect(r.Min.X, r.Max.Y-outlineWidth, r.Max.X, r.Max.Y)
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+outlineWidth, r.Max.Y)
	right := image.Rect(r.Max.X-outlineWidth, r.Min.Y, r.Max.X, r.Max.Y)
	for _, side := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(img, side.Intersect(img.Bounds()), &image.Uniform{c}, image.Point{}, draw.Src)
	}
}

// drawLabel draws the label text on a filled background just above the box
// corner, or inside it when the box touches the top of the image.
func drawLabel(img *image.RGBA, corner image.Point, label string, c color.RGBA) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, label).Ceil() + 8
	height := face.Metrics().Height.Ceil() + 4

	bg := image.Rect(corner.X, corner.Y-height, corner.X+width, corner.Y)
	if bg.Min.Y < img.Bounds().Min.Y {
		bg = bg.Add(image.Pt(0, height))
	}
	draw.Draw(img, bg.Intersect(img.Bounds()), &image.Uniform{c}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot: fixed.P(
			bg.Min.X+4,
			bg.Max.Y-4,
		),
	}
	d.DrawString(label)
}

// EncodePNGBase64 encodes an image as a base64 PNG string suitable for
// embedding in JSON responses or data URIs.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

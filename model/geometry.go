package model

import "math"

// BoundingBox is an axis-aligned rectangle in integer pixel units with a
// top-left origin: x grows rightward, y grows downward, as in rendered page
// images. Boxes are immutable once constructed.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewBoundingBox creates a bounding box. Negative dimensions are clamped to
// zero so malformed detections cannot propagate negative areas downstream.
func NewBoundingBox(x, y, width, height int) BoundingBox {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return BoundingBox{X: x, Y: y, Width: width, Height: height}
}

// X2 returns the right edge x coordinate.
func (b BoundingBox) X2() int {
	return b.X + b.Width
}

// Y2 returns the bottom edge y coordinate.
func (b BoundingBox) Y2() int {
	return b.Y + b.Height
}

// CenterX returns the horizontal center.
func (b BoundingBox) CenterX() int {
	return b.X + b.Width/2
}

// CenterY returns the vertical center.
func (b BoundingBox) CenterY() int {
	return b.Y + b.Height/2
}

// Area returns the area in square pixels.
func (b BoundingBox) Area() int {
	return b.Width * b.Height
}

// IsEmpty returns true if the box has zero area.
func (b BoundingBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Intersects checks whether two boxes overlap.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return !(b.X2() < other.X || other.X2() < b.X ||
		b.Y2() < other.Y || other.Y2() < b.Y)
}

// IoU calculates Intersection over Union, a value in [0, 1].
func (b BoundingBox) IoU(other BoundingBox) float64 {
	x1 := maxInt(b.X, other.X)
	y1 := maxInt(b.Y, other.Y)
	x2 := minInt(b.X2(), other.X2())
	y2 := minInt(b.Y2(), other.Y2())

	if x2 < x1 || y2 < y1 {
		return 0
	}

	intersection := (x2 - x1) * (y2 - y1)
	union := b.Area() + other.Area() - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// DistanceTo calculates the minimum distance between two boxes: zero when
// they overlap, otherwise the Euclidean distance between the nearest edges.
func (b BoundingBox) DistanceTo(other BoundingBox) float64 {
	if b.Intersects(other) {
		return 0
	}

	dx := maxInt(0, maxInt(b.X-other.X2(), other.X-b.X2()))
	dy := maxInt(0, maxInt(b.Y-other.Y2(), other.Y-b.Y2()))

	return math.Sqrt(float64(dx*dx + dy*dy))
}

// VerticalOverlap checks whether the boxes' vertical extents overlap.
func (b BoundingBox) VerticalOverlap(other BoundingBox) bool {
	return !(b.Y2() < other.Y || other.Y2() < b.Y)
}

// HorizontalOverlap checks whether the boxes' horizontal extents overlap.
func (b BoundingBox) HorizontalOverlap(other BoundingBox) bool {
	return !(b.X2() < other.X || other.X2() < b.X)
}

// IsAbove checks whether this box sits wholly above the other with its
// horizontal center within tolerance pixels of the other's center.
func (b BoundingBox) IsAbove(other BoundingBox, tolerance int) bool {
	return b.Y2() < other.Y && absInt(b.CenterX()-other.CenterX()) < tolerance
}

// IsBelow checks whether this box sits wholly below the other with its
// horizontal center within tolerance pixels of the other's center.
func (b BoundingBox) IsBelow(other BoundingBox, tolerance int) bool {
	return b.Y > other.Y2() && absInt(b.CenterX()-other.CenterX()) < tolerance
}

// Union returns the smallest box containing both boxes.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	x := minInt(b.X, other.X)
	y := minInt(b.Y, other.Y)
	x2 := maxInt(b.X2(), other.X2())
	y2 := maxInt(b.Y2(), other.Y2())

	return BoundingBox{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// CenterDistance returns the Euclidean distance between the box centers.
func (b BoundingBox) CenterDistance(other BoundingBox) float64 {
	dx := float64(b.CenterX() - other.CenterX())
	dy := float64(b.CenterY() - other.CenterY())
	return math.Sqrt(dx*dx + dy*dy)
}

// minInt returns the smaller of two int values.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// maxInt returns the larger of two int values.
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// absInt returns the absolute value of an int.
func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

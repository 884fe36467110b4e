// Package evade places the evading "No" button away from the "Yes" button.
package evade

import "math"

// Point is a position. Anchors use normalized (0..1) coordinates, placements
// use container-relative units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the width and height of an element.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect is an axis-aligned box.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RectAt returns the rect of the given size with its top-left corner at p.
func RectAt(p Point, s Size) Rect {
	return Rect{Left: p.X, Top: p.Y, Right: p.X + s.Width, Bottom: p.Y + s.Height}
}

// Width returns the horizontal extent of the rect.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent of the rect.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Size returns the rect's dimensions.
func (r Rect) Size() Size {
	return Size{Width: r.Width(), Height: r.Height()}
}

// Offset moves the rect by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{Left: r.Left + dx, Top: r.Top + dy, Right: r.Right + dx, Bottom: r.Bottom + dy}
}

// Expand grows the rect outward by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{Left: r.Left - margin, Top: r.Top - margin, Right: r.Right + margin, Bottom: r.Bottom + margin}
}

// Intersects reports whether two rects overlap.
// Rects that only touch along an edge do not intersect.
func (r Rect) Intersects(other Rect) bool {
	return !(r.Right <= other.Left ||
		r.Left >= other.Right ||
		r.Bottom <= other.Top ||
		r.Top >= other.Bottom)
}

// distSq returns the squared distance between two points.
func distSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func clamp(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}

// roundHalfUp rounds .5 toward positive infinity, matching browser layout math.
func roundHalfUp(n float64) float64 {
	return math.Floor(n + 0.5)
}

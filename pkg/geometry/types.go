// Package geometry provides the small set of planar types used to measure shape contours.
package geometry

import (
	"image"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FromImagePoints converts integer pixel coordinates (as produced by contour
// tracing) to Point2D.
func FromImagePoints(pts []image.Point) []Point2D {
	out := make([]Point2D, len(pts))
	for i, p := range pts {
		out[i] = Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}

// Rect represents a rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromImage converts an image.Rectangle to Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// Area returns width × height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// AspectRatio returns width / height, or 1 for a zero-height rectangle.
func (r Rect) AspectRatio() float64 {
	if r.Height == 0 {
		return 1.0
	}
	return r.Width / r.Height
}

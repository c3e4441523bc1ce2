// Package testutils renders synthetic shape images for tests.
package testutils

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/fogleman/gg"
)

// Common fill colors.
var (
	Red   = color.RGBA{R: 230, G: 20, B: 20, A: 255}
	Green = color.RGBA{R: 20, G: 180, B: 40, A: 255}
	Blue  = color.RGBA{R: 20, G: 40, B: 220, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Beige = color.RGBA{R: 240, G: 225, B: 200, A: 255}
)

// canvas returns a size×size context filled with bg. A nil bg leaves the
// canvas fully transparent.
func canvas(size int, bg color.Color) *gg.Context {
	dc := gg.NewContext(size, size)
	if bg != nil {
		dc.SetColor(bg)
		dc.Clear()
	}
	return dc
}

// Circle renders a filled circle centered on the canvas.
func Circle(size int, radius float64, fill, bg color.Color) image.Image {
	dc := canvas(size, bg)
	dc.SetColor(fill)
	dc.DrawCircle(float64(size)/2, float64(size)/2, radius)
	dc.Fill()
	return dc.Image()
}

// Rectangle renders an axis-aligned filled rectangle centered on the canvas.
// Integer sizes keep the edges free of anti-aliasing.
func Rectangle(size, w, h int, fill, bg color.Color) image.Image {
	dc := canvas(size, bg)
	dc.SetColor(fill)
	dc.DrawRectangle(float64((size-w)/2), float64((size-h)/2), float64(w), float64(h))
	dc.Fill()
	return dc.Image()
}

// Polygon renders a filled regular polygon with n sides centered on the canvas.
func Polygon(size, n int, radius float64, fill, bg color.Color) image.Image {
	dc := canvas(size, bg)
	dc.SetColor(fill)
	// gg points one vertex up for odd n and one flat side down for even n
	dc.DrawRegularPolygon(n, float64(size)/2, float64(size)/2, radius, 0)
	dc.Fill()
	return dc.Image()
}

// Blank renders an empty canvas.
func Blank(size int, bg color.Color) image.Image {
	return canvas(size, bg).Image()
}

// Base64PNG encodes img as PNG and returns it as raw base64.
func Base64PNG(tb testing.TB, img image.Image) string {
	tb.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		tb.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DataURI encodes img as a PNG data URI.
func DataURI(tb testing.TB, img image.Image) string {
	tb.Helper()
	return "data:image/png;base64," + Base64PNG(tb, img)
}

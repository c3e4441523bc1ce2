package image

import (
	"image"
)

// CompositeOnWhite flattens a straight-alpha image over a pure white
// backdrop and returns interleaved BGR bytes:
//
//	out = c*a + 255*(1-a), a = A/255
//
// Fully opaque pixels pass through unchanged. The result is truncated, not
// rounded, to match the float-then-uint8 conversion used when the color
// thresholds were calibrated.
func CompositeOnWhite(src *image.NRGBA) []uint8 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]uint8, w*h*3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := src.NRGBAAt(b.Min.X+x, b.Min.Y+y)
			i := (y*w + x) * 3
			if c.A == 255 {
				out[i], out[i+1], out[i+2] = c.B, c.G, c.R
				continue
			}
			a := float32(c.A) / 255
			out[i] = blend(c.B, a)
			out[i+1] = blend(c.G, a)
			out[i+2] = blend(c.R, a)
		}
	}
	return out
}

func blend(c uint8, a float32) uint8 {
	v := float32(c)*a + 255*(1-a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

package shape

import (
	"gonum.org/v1/gonum/stat"

	img "shapecaptcha/internal/image"
)

// EstimateBackground returns the mean B, G, R color of the four square corner
// patches of the raster. The patch side is min(radius, h/4, w/4), at least 1.
// Shape images are rendered on a uniform backdrop of unknown color, so the
// corners are the most reliable non-shape sample.
func EstimateBackground(r *img.Raster, radius int) [3]float64 {
	side := min(radius, r.Height/4, r.Width/4)
	if side < 1 {
		side = 1
	}

	n := 4 * side * side
	channels := [3][]float64{
		make([]float64, 0, n),
		make([]float64, 0, n),
		make([]float64, 0, n),
	}

	origins := [][2]int{
		{0, 0},
		{r.Width - side, 0},
		{0, r.Height - side},
		{r.Width - side, r.Height - side},
	}
	for _, o := range origins {
		for y := o[1]; y < o[1]+side; y++ {
			for x := o[0]; x < o[0]+side; x++ {
				b, g, red := r.At(x, y)
				channels[0] = append(channels[0], float64(b))
				channels[1] = append(channels[1], float64(g))
				channels[2] = append(channels[2], float64(red))
			}
		}
	}

	return [3]float64{
		stat.Mean(channels[0], nil),
		stat.Mean(channels[1], nil),
		stat.Mean(channels[2], nil),
	}
}

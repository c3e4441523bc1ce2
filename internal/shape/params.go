package shape

import (
	"github.com/pkg/errors"
)

// Params holds the tuning constants of the analysis pipeline.
// These are calibration data fitted against real puzzle imagery.
type Params struct {
	// Background estimation: corner patch side, capped at a quarter of the image.
	BackgroundRadius int `yaml:"background_radius"`

	// Background-difference thresholds (Euclidean BGR distance), evaluated in order.
	DiffThresholds []float64 `yaml:"diff_thresholds"`

	// A candidate contour must satisfy MinAreaFrac*imgArea < area < MaxAreaFrac*imgArea.
	MinAreaFrac float64 `yaml:"min_area_frac"`
	MaxAreaFrac float64 `yaml:"max_area_frac"`

	// Morphology
	KernelSize       int `yaml:"kernel_size"`       // elliptical structuring element side
	CloseIterations  int `yaml:"close_iterations"`  // closing applied to every mask
	EdgeDilateRounds int `yaml:"edge_dilate_rounds"` // dilation applied to the Canny map

	// Grayscale strategies
	BlurSize  int     `yaml:"blur_size"`
	CannyLow  float32 `yaml:"canny_low"`
	CannyHigh float32 `yaml:"canny_high"`

	// Vertex voting: ApproxPolyDP epsilon as fractions of the perimeter.
	EpsilonFracs []float64 `yaml:"epsilon_fracs"`

	// Four-vertex shapes with width/height inside this band are squares.
	SquareAspectMin float64 `yaml:"square_aspect_min"`
	SquareAspectMax float64 `yaml:"square_aspect_max"`

	// Circularity thresholds
	CircleMin      float64 `yaml:"circle_min"`      // many-vertex shapes at or above are circles
	CircleOverride float64 `yaml:"circle_override"` // any shape at or above is forced to circle

	// Contours below this pixel area yield the empty descriptor.
	MinShapeArea float64 `yaml:"min_shape_area"`
}

// DefaultParams returns the calibrated defaults.
func DefaultParams() Params {
	return Params{
		BackgroundRadius: 8,
		DiffThresholds:   []float64{20, 35, 50, 15},

		MinAreaFrac: 0.003,
		MaxAreaFrac: 0.90,

		KernelSize:       3,
		CloseIterations:  2,
		EdgeDilateRounds: 3,

		BlurSize:  3,
		CannyLow:  30,
		CannyHigh: 100,

		EpsilonFracs: []float64{0.01, 0.015, 0.02, 0.03, 0.04, 0.05},

		SquareAspectMin: 0.78,
		SquareAspectMax: 1.28,

		CircleMin:      0.72,
		CircleOverride: 0.88,

		MinShapeArea: 10,
	}
}

// Validate reports the first inconsistent setting.
func (p Params) Validate() error {
	switch {
	case p.BackgroundRadius < 1:
		return errors.Errorf("background_radius must be >= 1, got %d", p.BackgroundRadius)
	case p.MinAreaFrac < 0 || p.MaxAreaFrac > 1 || p.MinAreaFrac >= p.MaxAreaFrac:
		return errors.Errorf("invalid contour area window (%g, %g)", p.MinAreaFrac, p.MaxAreaFrac)
	case p.KernelSize < 1:
		return errors.Errorf("kernel_size must be >= 1, got %d", p.KernelSize)
	case p.BlurSize < 1 || p.BlurSize%2 == 0:
		return errors.Errorf("blur_size must be odd and positive, got %d", p.BlurSize)
	case len(p.EpsilonFracs) == 0:
		return errors.New("epsilon_fracs must not be empty")
	case p.SquareAspectMin > p.SquareAspectMax:
		return errors.Errorf("square aspect band inverted (%g > %g)", p.SquareAspectMin, p.SquareAspectMax)
	}
	for _, f := range p.EpsilonFracs {
		if f <= 0 {
			return errors.Errorf("epsilon fraction must be positive, got %g", f)
		}
	}
	return nil
}

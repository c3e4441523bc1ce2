// Package shape derives a visual descriptor (type, color, size) from a shape image.
package shape

import (
	"fmt"
	"strings"

	"shapecaptcha/pkg/colorutil"
)

// Label is a detected shape type.
type Label string

// Shape labels. UnknownN labels ("unknown-9") are built with UnknownVertices.
const (
	Triangle   Label = "triangle"
	Square     Label = "square"
	Rectangle  Label = "rectangle"
	Pentagon   Label = "pentagon"
	Hexagon    Label = "hexagon"
	Heptagon   Label = "heptagon"
	Circle     Label = "circle"
	CircleIsh  Label = "circle-ish"
	Unknown    Label = "unknown"
	NoContour  Label = "no_contour"
	ErrorLabel Label = "error"
)

// UnknownVertices returns the label for an unresolved vertex count.
func UnknownVertices(n int) Label {
	return Label(fmt.Sprintf("unknown-%d", n))
}

// IsAmbiguous reports whether the label carries no usable type information.
// Ambiguous labels never satisfy a strict type match.
func (l Label) IsAmbiguous() bool {
	switch l {
	case "", Unknown, ErrorLabel, NoContour:
		return true
	}
	return strings.HasPrefix(string(l), string(Unknown)+"-")
}

// Descriptor is the visual summary of one shape image.
type Descriptor struct {
	Area        float64        `json:"area"`
	HullArea    float64        `json:"hull_area"`
	BBoxArea    float64        `json:"bbox_area"`
	Type        Label          `json:"type"`
	Vertices    int            `json:"vertices"`
	Circularity float64        `json:"circularity"`
	Color       colorutil.Name `json:"color"`
	Background  colorutil.Name `json:"background,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// EmptyDescriptor is the canonical zero-area descriptor.
func EmptyDescriptor() Descriptor {
	return Descriptor{Type: Unknown, Color: colorutil.Unknown}
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s %s area=%.0f hull=%.0f v=%d c=%.2f",
		d.Type, d.Color, d.Area, d.HullArea, d.Vertices, d.Circularity)
}

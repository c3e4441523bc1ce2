package solver

import (
	"math"
	"strings"

	"shapecaptcha/internal/shape"
)

// polyOrder ranks polygon labels by vertex count; neighbors are easily
// confused and count as loose matches.
var polyOrder = []string{"triangle", "square", "rectangle", "pentagon", "hexagon", "heptagon"}

func polyIndex(label string) int {
	for i, l := range polyOrder {
		if l == label {
			return i
		}
	}
	return -1
}

// polyDistance is the ordinal distance between two polygon labels, or -1 if
// either is not a polygon.
func polyDistance(a, b string) int {
	ia, ib := polyIndex(a), polyIndex(b)
	if ia < 0 || ib < 0 {
		return -1
	}
	if ia > ib {
		return ia - ib
	}
	return ib - ia
}

// IsAmbiguous reports whether a detected type carries no usable information.
func IsAmbiguous(detected shape.Label) bool {
	return detected.IsAmbiguous()
}

// TypeMatchesStrict reports whether a detected type may satisfy the target
// keyword: containment, any circle variant for "circle", or a polygon one
// vertex count away.
func TypeMatchesStrict(detected shape.Label, target string) bool {
	if IsAmbiguous(detected) {
		return false
	}
	d := string(detected)
	if target == "circle" {
		return strings.Contains(d, "circle")
	}
	if strings.Contains(d, target) {
		return true
	}
	dist := polyDistance(target, d)
	return dist >= 0 && dist <= 1
}

// TypeConfidence scores how well a detected type fits the target:
// 1 for a direct match (or no target), 0.7 for an adjacent polygon, else 0.
func TypeConfidence(detected shape.Label, target string) float64 {
	if target == "" {
		return 1
	}
	if IsAmbiguous(detected) {
		return 0
	}
	d := string(detected)
	if target == "circle" {
		if strings.Contains(d, "circle") {
			return 1
		}
		return 0
	}
	if strings.Contains(d, target) {
		return 1
	}
	if polyDistance(target, d) == 1 {
		return 0.7
	}
	return 0
}

// FallbackArea derives an area from loose geometry fields: area or size,
// else width*height, else pi*radius^2, else 0.
func FallbackArea(s StageShape) float64 {
	switch {
	case s.Area != nil:
		return *s.Area
	case s.Size != nil:
		return *s.Size
	case s.Width != nil && s.Height != nil:
		return *s.Width * *s.Height
	case s.Radius != nil:
		return math.Pi * *s.Radius * *s.Radius
	}
	return 0
}

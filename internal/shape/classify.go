package shape

import (
	"gocv.io/x/gocv"

	"shapecaptcha/pkg/geometry"
)

// Classification is the geometric reading of one contour.
type Classification struct {
	Label       Label
	Vertices    int
	Circularity float64
}

// Classify derives the shape label, vertex count, and circularity of a contour.
//
// The vertex count is voted over several ApproxPolyDP tolerances: each
// epsilon (a fraction of the perimeter) casts one vote for the vertex count
// it produces, and the most-voted count wins with ties going to the smaller
// count.
func Classify(c Contour, p Params) Classification {
	pv := gocv.NewPointVectorFromPoints(c)
	defer pv.Close()

	perimeter := gocv.ArcLength(pv, true)
	area := gocv.ContourArea(pv)
	circularity := geometry.Circularity(area, perimeter)

	counts := make([]int, 0, len(p.EpsilonFracs))
	for _, frac := range p.EpsilonFracs {
		approx := gocv.ApproxPolyDP(pv, frac*perimeter, true)
		counts = append(counts, approx.Size())
		approx.Close()
	}
	vertices := voteVertices(counts)

	aspect := geometry.RectFromImage(gocv.BoundingRect(pv)).AspectRatio()

	return Classification{
		Label:       LabelFor(vertices, aspect, circularity, p),
		Vertices:    vertices,
		Circularity: circularity,
	}
}

// voteVertices returns the most frequent count; ties prefer the smaller count.
func voteVertices(counts []int) int {
	votes := make(map[int]int, len(counts))
	for _, n := range counts {
		votes[n]++
	}

	best, bestVotes := 0, -1
	for n, v := range votes {
		if v > bestVotes || (v == bestVotes && n < best) {
			best, bestVotes = n, v
		}
	}
	return best
}

// LabelFor maps a vertex count, bounding-box aspect ratio (width/height),
// and circularity to a shape label.
func LabelFor(vertices int, aspect, circularity float64, p Params) Label {
	var label Label
	switch {
	case vertices == 3:
		label = Triangle
	case vertices == 4:
		if aspect >= p.SquareAspectMin && aspect <= p.SquareAspectMax {
			label = Square
		} else {
			label = Rectangle
		}
	case vertices == 5:
		label = Pentagon
	case vertices == 6:
		label = Hexagon
	case vertices == 7:
		label = Heptagon
	case vertices >= 8:
		if circularity >= p.CircleMin {
			label = Circle
		} else {
			label = CircleIsh
		}
	default:
		if circularity >= p.CircleMin {
			label = Circle
		} else {
			label = UnknownVertices(vertices)
		}
	}

	// Anti-aliased circles often approximate to 5-7 vertices.
	if circularity >= p.CircleOverride && label != Circle && label != CircleIsh {
		label = Circle
	}
	return label
}

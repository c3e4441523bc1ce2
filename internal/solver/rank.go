package solver

import (
	"sort"

	"shapecaptcha/internal/instruction"
	"shapecaptcha/internal/shape"
	"shapecaptcha/pkg/colorutil"
)

// Ranking is the outcome of filtering and ordering one stage.
type Ranking struct {
	// Index is the positional index of the winning shape.
	Index int
	// Candidates lists the surviving shape indices, best first.
	Candidates []int
	// TypeFallback is set when no shape passed the type filter.
	TypeFallback bool
	// ColorSkipped is set when the color filter would have removed every candidate.
	ColorSkipped bool
}

// Rank picks the shape that best answers c. descs[i] describes shapes[i].
// The sequence must be non-empty.
//
// Shapes are filtered by type (strict match), falling back to every shape
// when none matches, and then by color (exact match or unknown), a filter
// that is dropped when it would leave nothing. Survivors are ordered by area
// in the requested direction with type confidence as the tie-break; equal
// keys keep their original order.
func Rank(c instruction.Criteria, shapes []StageShape, descs []shape.Descriptor) Ranking {
	var r Ranking

	all := make([]int, len(descs))
	for i := range all {
		all[i] = i
	}

	candidates := all
	if c.TargetType != "" {
		candidates = nil
		for _, i := range all {
			if TypeMatchesStrict(descs[i].Type, c.TargetType) {
				candidates = append(candidates, i)
			}
		}
		if len(candidates) == 0 {
			r.TypeFallback = true
			candidates = append([]int(nil), all...)
		}
	}

	if c.TargetColor != "" {
		var colored []int
		for _, i := range candidates {
			if col := descs[i].Color; col == c.TargetColor || col == colorutil.Unknown {
				colored = append(colored, i)
			}
		}
		if len(colored) > 0 {
			candidates = colored
		} else {
			r.ColorSkipped = true
		}
	}

	area := make([]float64, len(descs))
	conf := make([]float64, len(descs))
	for _, i := range candidates {
		area[i] = descs[i].Area
		if i < len(shapes) && undescribed(shapes[i]) {
			area[i] = FallbackArea(shapes[i])
		}
		conf[i] = TypeConfidence(descs[i].Type, c.TargetType)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ia, ib := candidates[a], candidates[b]
		if area[ia] != area[ib] {
			if c.WantSmallest {
				return area[ia] < area[ib]
			}
			return area[ia] > area[ib]
		}
		return conf[ia] > conf[ib]
	})

	r.Index = candidates[0]
	r.Candidates = candidates
	return r
}

// undescribed reports whether a shape carries neither an image nor a
// descriptor, leaving only its loose geometry fields to size it.
func undescribed(s StageShape) bool {
	return s.Img == "" && s.Visual == nil
}

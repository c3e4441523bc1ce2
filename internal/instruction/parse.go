// Package instruction extracts ranking criteria from a free-text puzzle prompt.
package instruction

import (
	"fmt"
	"strings"

	"shapecaptcha/pkg/colorutil"
)

// ShapeKeywords are matched in priority order; the first one found wins.
var ShapeKeywords = []string{
	"circle", "square", "triangle", "rectangle",
	"hexagon", "pentagon", "heptagon", "polygon",
}

// ColorKeywords are matched in priority order; the first one found wins.
var ColorKeywords = []colorutil.Name{
	colorutil.Red, colorutil.Orange, colorutil.Yellow, colorutil.Green, colorutil.Blue,
	colorutil.Purple, colorutil.White, colorutil.Black, colorutil.Gray,
}

var (
	smallestWords = []string{"smallest", "tiny", "minimum"}
	largestWords  = []string{"largest", "biggest", "maximum"}
)

// Criteria is what a prompt asks for. Empty TargetType or TargetColor means
// the prompt did not constrain it.
type Criteria struct {
	TargetType   string         `json:"target_type,omitempty"`
	TargetColor  colorutil.Name `json:"target_color,omitempty"`
	WantSmallest bool           `json:"want_smallest"`
	WantLargest  bool           `json:"want_largest"`
}

// Parse reads criteria from a prompt by case-insensitive substring search.
// A prompt naming neither size direction asks for the largest shape.
func Parse(instruction string) Criteria {
	instr := strings.ToLower(instruction)

	var c Criteria
	for _, k := range ShapeKeywords {
		if strings.Contains(instr, k) {
			c.TargetType = k
			break
		}
	}
	for _, k := range ColorKeywords {
		if strings.Contains(instr, string(k)) {
			c.TargetColor = k
			break
		}
	}

	c.WantSmallest = containsAny(instr, smallestWords)
	c.WantLargest = containsAny(instr, largestWords)
	if !c.WantSmallest && !c.WantLargest {
		c.WantLargest = true
	}
	return c
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func (c Criteria) String() string {
	size := "largest"
	if c.WantSmallest {
		size = "smallest"
	}
	typ, col := c.TargetType, string(c.TargetColor)
	if typ == "" {
		typ = "any"
	}
	if col == "" {
		col = "any"
	}
	return fmt.Sprintf("%s %s %s", size, col, typ)
}

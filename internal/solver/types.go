// Package solver ranks the shapes of a puzzle stage against its prompt.
package solver

import (
	"shapecaptcha/internal/instruction"
	"shapecaptcha/internal/shape"
)

// StageShape is one clickable shape. Img is raw base64 or a data URI.
// A shape without an image keeps its pre-supplied Visual, if any; the loose
// geometry fields only feed FallbackArea.
type StageShape struct {
	Img    string            `json:"img,omitempty"`
	Visual *shape.Descriptor `json:"visual,omitempty"`

	Area   *float64 `json:"area,omitempty"`
	Size   *float64 `json:"size,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Radius *float64 `json:"radius,omitempty"`
}

// Stage is one prompt with its ordered shapes. Answers index into Shapes.
type Stage struct {
	Instruction string       `json:"instruction"`
	Shapes      []StageShape `json:"shapes"`
}

// Puzzle is a multi-stage challenge. Older payloads carry a single Puzzle
// instead of Stages.
type Puzzle struct {
	Stages []Stage `json:"stages,omitempty"`
	Puzzle *Stage  `json:"puzzle,omitempty"`
}

// StageList returns the stages to solve, in order.
func (p Puzzle) StageList() []Stage {
	if len(p.Stages) > 0 {
		return p.Stages
	}
	if p.Puzzle != nil {
		return []Stage{*p.Puzzle}
	}
	return nil
}

// Result is the outcome of one stage.
type Result struct {
	Answer      string               `json:"answer"`
	Index       int                  `json:"index"`
	Criteria    instruction.Criteria `json:"criteria"`
	Candidates  []int                `json:"candidates"`
	Descriptors []shape.Descriptor   `json:"descriptors"`
}

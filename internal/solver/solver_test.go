package solver

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"shapecaptcha/internal/dataset"
	"shapecaptcha/internal/instruction"
	"shapecaptcha/internal/shape"
	"shapecaptcha/internal/testutils"
	"shapecaptcha/pkg/colorutil"
)

func newTestSolver(t *testing.T, opts ...Option) *Solver {
	logger := golog.NewTestLogger(t)
	a := shape.NewAnalyzer(shape.DefaultParams(), colorutil.DefaultPalette(), logger)
	return New(a, logger, opts...)
}

func visual(typ shape.Label, col colorutil.Name, area float64) StageShape {
	return StageShape{Visual: &shape.Descriptor{Type: typ, Color: col, Area: area, HullArea: area}}
}

func TestSolveStagePreDescribed(t *testing.T) {
	s := newTestSolver(t)
	res := s.SolveStage(Stage{
		Instruction: "pick the smallest square",
		Shapes: []StageShape{
			visual(shape.Triangle, colorutil.Red, 500),
			visual(shape.Square, colorutil.Red, 200),
			visual(shape.Circle, colorutil.Red, 800),
		},
	}, 0)
	test.That(t, res.Answer, test.ShouldEqual, "1")
	test.That(t, res.Index, test.ShouldEqual, 1)
	test.That(t, res.Candidates, test.ShouldResemble, []int{1, 0})
}

func TestSolveStageEmpty(t *testing.T) {
	s := newTestSolver(t)
	res := s.SolveStage(Stage{Instruction: "pick the smallest square"}, 0)
	test.That(t, res.Answer, test.ShouldEqual, "0")
	test.That(t, res.Descriptors, test.ShouldBeEmpty)
}

func TestRankAllUnknownFallsBack(t *testing.T) {
	shapes := []StageShape{
		visual(shape.Unknown, colorutil.Unknown, 100),
		visual(shape.NoContour, colorutil.Unknown, 300),
		visual(shape.Unknown, colorutil.Unknown, 200),
	}
	r := Rank(instruction.Parse("click the triangle"), shapes, visuals(shapes))
	test.That(t, r.TypeFallback, test.ShouldBeTrue)
	test.That(t, r.Index, test.ShouldEqual, 1)

	r = Rank(instruction.Parse("click the smallest triangle"), shapes, visuals(shapes))
	test.That(t, r.Index, test.ShouldEqual, 0)
}

func TestRankColorFilter(t *testing.T) {
	shapes := []StageShape{
		visual(shape.Square, colorutil.Blue, 900),
		visual(shape.Square, colorutil.Unknown, 500),
		visual(shape.Square, colorutil.Red, 300),
	}
	// unknown color gets the benefit of the doubt
	r := Rank(instruction.Parse("the largest red square"), shapes, visuals(shapes))
	test.That(t, r.Index, test.ShouldEqual, 1)
	test.That(t, r.ColorSkipped, test.ShouldBeFalse)

	// no match at all keeps the type result
	r = Rank(instruction.Parse("the largest green square"), shapes[:1], visuals(shapes[:1]))
	test.That(t, r.ColorSkipped, test.ShouldBeTrue)
	test.That(t, r.Index, test.ShouldEqual, 0)
}

func TestRankConfidenceBreaksAreaTies(t *testing.T) {
	shapes := []StageShape{
		visual(shape.Triangle, colorutil.Red, 200),
		visual(shape.Square, colorutil.Red, 200),
		visual(shape.Square, colorutil.Red, 200),
	}
	r := Rank(instruction.Parse("smallest square"), shapes, visuals(shapes))
	test.That(t, r.Candidates, test.ShouldResemble, []int{1, 2, 0})
}

func TestRankAreaBeatsConfidence(t *testing.T) {
	shapes := []StageShape{
		visual(shape.Square, colorutil.Red, 400),
		visual(shape.Rectangle, colorutil.Red, 900),
	}
	r := Rank(instruction.Parse("largest square"), shapes, visuals(shapes))
	test.That(t, r.Index, test.ShouldEqual, 1)
}

func TestRankFallbackArea(t *testing.T) {
	shapes := []StageShape{
		{Width: f(10), Height: f(10)},
		{Radius: f(10)},
		{},
	}
	r := Rank(instruction.Parse("largest"), shapes, visuals(shapes))
	test.That(t, r.Index, test.ShouldEqual, 1)
}

func TestRankTypeFallbackKeepsColor(t *testing.T) {
	shapes := []StageShape{
		visual(shape.Circle, colorutil.Blue, 900),
		visual(shape.Circle, colorutil.Red, 300),
	}
	r := Rank(instruction.Parse("largest red triangle"), shapes, visuals(shapes))
	test.That(t, r.TypeFallback, test.ShouldBeTrue)
	test.That(t, r.ColorSkipped, test.ShouldBeFalse)
	test.That(t, r.Index, test.ShouldEqual, 1)
	test.That(t, r.Candidates, test.ShouldResemble, []int{1})
}

func TestRankDescriptorAreaIsAuthoritative(t *testing.T) {
	shapes := []StageShape{
		{Img: "!!", Size: f(5000)},
		{Img: "square"},
		{Visual: &shape.Descriptor{Type: shape.NoContour, Color: colorutil.Unknown}, Width: f(100), Height: f(100)},
	}
	descs := []shape.Descriptor{
		shape.EmptyDescriptor(),
		{Type: shape.Square, Color: colorutil.Red, Area: 3481, HullArea: 3481},
		*shapes[2].Visual,
	}
	r := Rank(instruction.Parse("select the largest shape"), shapes, descs)
	test.That(t, r.Index, test.ShouldEqual, 1)
	test.That(t, r.Candidates, test.ShouldResemble, []int{1, 0, 2})
}

func TestSolveStageUndecodableLoses(t *testing.T) {
	s := newTestSolver(t)
	res := s.SolveStage(Stage{
		Instruction: "select the largest shape",
		Shapes: []StageShape{
			{Img: "!!", Size: f(5000)},
			{Img: testutils.Base64PNG(t, testutils.Rectangle(100, 60, 60, testutils.Red, testutils.White))},
		},
	}, 0)
	test.That(t, res.Descriptors[0], test.ShouldResemble, shape.EmptyDescriptor())
	test.That(t, res.Answer, test.ShouldEqual, "1")
}

func visuals(shapes []StageShape) []shape.Descriptor {
	out := make([]shape.Descriptor, len(shapes))
	for i, s := range shapes {
		if s.Visual != nil {
			out[i] = *s.Visual
		} else {
			out[i] = shape.EmptyDescriptor()
		}
	}
	return out
}

type memorySink struct {
	mu      sync.Mutex
	records []dataset.Record
}

func (m *memorySink) Save(b64 string, d shape.Descriptor, instr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, dataset.NewRecord(b64, d, instr))
	return nil
}

func renderedStage(t *testing.T) Stage {
	return Stage{
		Instruction: "Select the largest blue square",
		Shapes: []StageShape{
			{Img: testutils.Base64PNG(t, testutils.Circle(120, 50, testutils.Red, testutils.White))},
			{Img: testutils.Base64PNG(t, testutils.Rectangle(120, 40, 40, testutils.Blue, testutils.White))},
			{},
			{Img: testutils.DataURI(t, testutils.Rectangle(120, 70, 70, testutils.Blue, testutils.White))},
		},
	}
}

func TestSolveStageRendered(t *testing.T) {
	sink := &memorySink{}
	s := newTestSolver(t, WithSink(sink))
	res := s.SolveStage(renderedStage(t), 0)

	test.That(t, res.Answer, test.ShouldEqual, "3")
	test.That(t, res.Descriptors, test.ShouldHaveLength, 4)
	test.That(t, res.Descriptors[2], test.ShouldResemble, shape.EmptyDescriptor())
	test.That(t, res.Descriptors[3].Type, test.ShouldEqual, shape.Square)
	test.That(t, res.Descriptors[3].Color, test.ShouldEqual, colorutil.Blue)

	// the imageless shape is not recorded
	test.That(t, sink.records, test.ShouldHaveLength, 3)
	test.That(t, sink.records[0].Meta.Instruction, test.ShouldEqual, "Select the largest blue square")
}

func TestSolveStageParallelKeepsOrder(t *testing.T) {
	sequential := newTestSolver(t).SolveStage(renderedStage(t), 0)
	parallel := newTestSolver(t, WithWorkers(4)).SolveStage(renderedStage(t), 0)
	test.That(t, parallel, test.ShouldResemble, sequential)
}

func TestSolvePuzzle(t *testing.T) {
	s := newTestSolver(t)

	var p Puzzle
	err := json.Unmarshal([]byte(`{
		"stages": [
			{"instruction": "pick the smallest square", "shapes": [
				{"visual": {"type": "triangle", "area": 500, "color": "red"}},
				{"visual": {"type": "square", "area": 200, "color": "red"}},
				{"visual": {"type": "circle", "area": 800, "color": "red"}}
			]},
			{"instruction": "click the largest shape", "shapes": []}
		]
	}`), &p)
	test.That(t, err, test.ShouldBeNil)

	answers, err := s.SolvePuzzle(p)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, answers, test.ShouldResemble, []string{"1", "0"})

	err = json.Unmarshal([]byte(`{"puzzle": {"instruction": "biggest", "shapes": [{"width": 3, "height": 3}, {"area": 10}]}}`), &p)
	test.That(t, err, test.ShouldBeNil)
	p.Stages = nil
	answers, err = s.SolvePuzzle(p)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, answers, test.ShouldResemble, []string{"1"})

	_, err = s.SolvePuzzle(Puzzle{})
	test.That(t, err, test.ShouldEqual, ErrNoStages)
}

package solver

import (
	"strconv"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"shapecaptcha/internal/dataset"
	"shapecaptcha/internal/instruction"
	"shapecaptcha/internal/shape"
)

// ErrNoStages is returned for a puzzle with neither stages nor a single puzzle stage.
var ErrNoStages = errors.New("puzzle has no stages")

// Solver answers puzzle stages. It is safe for concurrent use when its sink is.
type Solver struct {
	analyzer *shape.Analyzer
	logger   golog.Logger
	sink     dataset.Sink
	dumper   *dataset.ImageDumper
	workers  int
}

// Option configures a Solver.
type Option func(*Solver)

// WithSink records every analyzed shape.
func WithSink(sink dataset.Sink) Option {
	return func(s *Solver) { s.sink = sink }
}

// WithDumper writes every decoded shape image to disk.
func WithDumper(d *dataset.ImageDumper) Option {
	return func(s *Solver) { s.dumper = d }
}

// WithWorkers analyzes up to n shapes of a stage in parallel. n <= 1 is sequential.
func WithWorkers(n int) Option {
	return func(s *Solver) { s.workers = n }
}

// New returns a Solver using analyzer for every shape image.
func New(analyzer *shape.Analyzer, logger golog.Logger, opts ...Option) *Solver {
	s := &Solver{analyzer: analyzer, logger: logger, sink: dataset.Nop{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SolvePuzzle answers every stage of p in order.
func (s *Solver) SolvePuzzle(p Puzzle) ([]string, error) {
	stages := p.StageList()
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	answers := make([]string, len(stages))
	for i, st := range stages {
		answers[i] = s.SolveStage(st, i).Answer
	}
	return answers, nil
}

// SolveStage picks the shape answering the stage prompt. It never fails:
// an empty stage answers "0" and undecodable shapes lose to decodable ones.
func (s *Solver) SolveStage(stage Stage, stageIdx int) Result {
	c := instruction.Parse(stage.Instruction)
	res := Result{Answer: "0", Criteria: c}
	if len(stage.Shapes) == 0 {
		s.logger.Infow("empty stage", "stage", stageIdx, "criteria", c.String())
		return res
	}

	res.Descriptors = s.describeAll(stage, stageIdx)
	for i, d := range res.Descriptors {
		s.logger.Debugw("shape",
			"stage", stageIdx,
			"index", i,
			"type", d.Type,
			"color", d.Color,
			"area", d.Area,
			"hull", d.HullArea,
			"vertices", d.Vertices,
			"circularity", d.Circularity,
			"type_ok", c.TargetType == "" || TypeMatchesStrict(d.Type, c.TargetType),
		)
	}

	r := Rank(c, stage.Shapes, res.Descriptors)
	if r.TypeFallback {
		s.logger.Infow("no shape matched, ranking all", "stage", stageIdx, "target", c.TargetType)
	}
	if r.ColorSkipped {
		s.logger.Debugw("no shape matched color, ignoring it", "stage", stageIdx, "color", c.TargetColor)
	}

	res.Index = r.Index
	res.Candidates = r.Candidates
	res.Answer = strconv.Itoa(r.Index)
	s.logger.Infow("stage solved",
		"stage", stageIdx,
		"criteria", c.String(),
		"candidates", len(r.Candidates),
		"answer", res.Answer,
	)
	return res
}

// describeAll analyzes every shape, preserving stage order.
func (s *Solver) describeAll(stage Stage, stageIdx int) []shape.Descriptor {
	descs := make([]shape.Descriptor, len(stage.Shapes))
	if s.workers <= 1 {
		for i, sh := range stage.Shapes {
			descs[i] = s.describe(sh, stageIdx, i, stage.Instruction)
		}
		return descs
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, sh := range stage.Shapes {
		i, sh := i, sh
		g.Go(func() error {
			descs[i] = s.describe(sh, stageIdx, i, stage.Instruction)
			return nil
		})
	}
	// describe never fails
	_ = g.Wait()
	return descs
}

func (s *Solver) describe(sh StageShape, stageIdx, idx int, instr string) shape.Descriptor {
	if sh.Img == "" {
		if sh.Visual != nil {
			return *sh.Visual
		}
		return shape.EmptyDescriptor()
	}

	d := s.analyzer.Analyze(sh.Img)

	if err := s.sink.Save(sh.Img, d, instr); err != nil {
		s.logger.Warnw("dataset save failed", "stage", stageIdx, "index", idx, "error", err)
	}
	if s.dumper != nil {
		if path, err := s.dumper.Dump(stageIdx, idx, sh.Img, d.Type); err != nil {
			s.logger.Debugw("shape dump failed", "stage", stageIdx, "index", idx, "error", err)
		} else {
			s.logger.Debugw("shape dumped", "path", path)
		}
	}
	return d
}

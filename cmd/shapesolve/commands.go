package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shapecaptcha/internal/config"
	"shapecaptcha/internal/dataset"
	img "shapecaptcha/internal/image"
	"shapecaptcha/internal/instruction"
	"shapecaptcha/internal/shape"
	"shapecaptcha/internal/solver"
)

// newLogger logs to stderr so stdout carries only results.
func newLogger(debug bool) (golog.Logger, error) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	logger, err := zap.Config{
		Level:    zap.NewAtomicLevelAt(level),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		DisableStacktrace: true,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger.Sugar().Named("shapesolve"), nil
}

// env is what every command needs: resolved config and a logger.
type env struct {
	cfg    config.Config
	logger golog.Logger
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	if p := c.String(flagDataset); p != "" {
		cfg.Dataset.Enabled = true
		cfg.Dataset.Path = p
	}
	if d := c.String(flagDump); d != "" {
		cfg.Dataset.DumpDir = d
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := newLogger(c.Bool(flagDebug))
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logger: logger}, nil
}

func (e *env) analyzer() *shape.Analyzer {
	return shape.NewAnalyzer(e.cfg.Analysis, e.cfg.Palette, e.logger.Named("shape"))
}

func (e *env) solver() *solver.Solver {
	opts := []solver.Option{solver.WithWorkers(e.cfg.Workers)}
	if e.cfg.Dataset.Enabled {
		sink := dataset.NewFileSink(e.cfg.Dataset.Path)
		e.logger.Infow("collecting dataset", "path", sink.Path())
		opts = append(opts, solver.WithSink(sink))
	}
	if e.cfg.Dataset.DumpDir != "" {
		opts = append(opts, solver.WithDumper(dataset.NewImageDumper(e.cfg.Dataset.DumpDir)))
	}
	return solver.New(e.analyzer(), e.logger.Named("solver"), opts...)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readPuzzle accepts a multi-stage puzzle, a {"puzzle": ...} wrapper, or a bare stage.
func readPuzzle(r io.Reader) (solver.Puzzle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return solver.Puzzle{}, errors.Wrap(err, "read puzzle")
	}
	var p solver.Puzzle
	if err := json.Unmarshal(data, &p); err != nil {
		return p, errors.Wrap(err, "parse puzzle")
	}
	if len(p.StageList()) > 0 {
		return p, nil
	}
	var st solver.Stage
	if err := json.Unmarshal(data, &st); err != nil {
		return p, errors.Wrap(err, "parse stage")
	}
	if st.Instruction != "" || len(st.Shapes) > 0 {
		p.Puzzle = &st
	}
	return p, nil
}

func solveAction(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	in := c.App.Reader
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrap(err, "open puzzle")
		}
		defer f.Close()
		in = f
	}

	p, err := readPuzzle(in)
	if err != nil {
		return err
	}

	s := e.solver()
	if !c.Bool(flagVerbose) {
		answers, err := s.SolvePuzzle(p)
		if err != nil {
			return err
		}
		return writeJSON(c.App.Writer, answers)
	}

	stages := p.StageList()
	if len(stages) == 0 {
		return solver.ErrNoStages
	}
	results := make([]solver.Result, len(stages))
	for i, st := range stages {
		results[i] = s.SolveStage(st, i)
	}
	return writeJSON(c.App.Writer, results)
}

type analyzed struct {
	File string `json:"file"`
	shape.Descriptor
}

func analyzeAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("analyze needs at least one image file")
	}
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	a := e.analyzer()
	for _, path := range c.Args().Slice() {
		if !img.IsSupportedFormat(path) {
			e.logger.Warnw("unrecognized image extension, decoding anyway",
				"file", path, "supported", img.SupportedFormats())
		}
		d := shape.EmptyDescriptor()
		r, err := img.Load(path)
		if err != nil {
			e.logger.Warnw("cannot load image", "file", path, "error", err)
		} else {
			d = a.AnalyzeRaster(r)
			r.Close()
		}
		if err := json.NewEncoder(c.App.Writer).Encode(analyzed{File: path, Descriptor: d}); err != nil {
			return err
		}
	}
	return nil
}

func initConfigAction(c *cli.Context) error {
	path := c.String(flagConfig)
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !c.Bool(flagForce) {
		return errors.Errorf("%s already exists (use --%s to overwrite)", path, flagForce)
	}
	if err := config.Default().Save(path); err != nil {
		return err
	}
	_, err := io.WriteString(c.App.Writer, path+"\n")
	return err
}

func parseAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("parse needs an instruction")
	}
	return writeJSON(c.App.Writer, instruction.Parse(strings.Join(c.Args().Slice(), " ")))
}

func datasetStatsAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("dataset-stats needs a JSONL file")
	}
	records, err := dataset.Load(path)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, dataset.Summarize(records))
}

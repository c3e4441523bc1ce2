// Command shapesolve analyzes shape images and answers select-the-shape puzzles.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"shapecaptcha/internal/version"
)

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagWorkers = "workers"
	flagDataset = "dataset"
	flagDump    = "dump-dir"
	flagVerbose = "verbose"
	flagForce   = "force"
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "shapesolve",
		Usage:   "answer select-the-shape puzzles from shape images",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "YAML config file (default ~/.config/shapesolve/config.yaml)",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "log every contour candidate and shape",
			},
			&cli.IntFlag{
				Name:  flagWorkers,
				Usage: "shapes analyzed in parallel per stage (overrides config)",
			},
			&cli.StringFlag{
				Name:  flagDataset,
				Usage: "append every analyzed shape to this JSONL file",
			},
			&cli.StringFlag{
				Name:  flagDump,
				Usage: "write every decoded shape image into this directory",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "answer a puzzle or single stage read from JSON",
				ArgsUsage: "[file|-]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagVerbose,
						Usage: "print full stage results instead of bare answers",
					},
				},
				Action: solveAction,
			},
			{
				Name:      "analyze",
				Usage:     "describe the shape in each image file",
				ArgsUsage: "<image>...",
				Action:    analyzeAction,
			},
			{
				Name:      "parse",
				Usage:     "show the criteria read from an instruction",
				ArgsUsage: "<instruction>",
				Action:    parseAction,
			},
			{
				Name:  "init-config",
				Usage: "write the default configuration to --config or the default path",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  flagForce,
						Usage: "overwrite an existing file",
					},
				},
				Action: initConfigAction,
			},
			{
				Name:      "dataset-stats",
				Usage:     "summarize a labeled-example log",
				ArgsUsage: "<file.jsonl>",
				Action:    datasetStatsAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

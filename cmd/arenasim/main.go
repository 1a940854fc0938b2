// SPDX-License-Identifier: Apache-2.0

// arenasim drives a fixed arena through allocation workloads and reports
// the resulting free-region layout.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	arena "github.com/wundergraph/go-fixedarena"
)

var (
	SizeFlag = &cli.IntFlag{
		Name:  "size",
		Usage: "Arena size in bytes",
		Value: 2048,
	}
	MaxBlocksFlag = &cli.IntFlag{
		Name:    "max-blocks",
		Aliases: []string{"blocks"},
		Usage:   "Number of free-region descriptors",
		Value:   64,
	}
	IterationsFlag = &cli.IntFlag{
		Name:    "iterations",
		Aliases: []string{"n"},
		Usage:   "Number of workload iterations",
		Value:   100,
	}
	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log every step in human readable form",
	}
	ReportFlag = &cli.BoolFlag{
		Name:  "report",
		Usage: "Dump the free-region list when the workload finishes",
		Value: true,
	}
)

var (
	cycleCommand = &cli.Command{
		Name:   "cycle",
		Usage:  "Allocates, duplicates and frees message strings",
		Action: cycleAction,
	}
	workloadCommand = &cli.Command{
		Name:   "workload",
		Usage:  "Runs the integer and string workload",
		Action: workloadAction,
	}
)

func main() {
	app := &cli.App{
		Name:  "arenasim",
		Usage: "exercise a fixed-capacity free-list arena",
		Flags: []cli.Flag{
			SizeFlag,
			MaxBlocksFlag,
			IterationsFlag,
			VerboseFlag,
			ReportFlag,
		},
		Commands: []*cli.Command{
			cycleCommand,
			workloadCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup builds the logger and arena described by the global flags.
func setup(ctx *cli.Context) (*arena.FixedArena, *zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)
	if ctx.Bool(VerboseFlag.Name) {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}
	a, err := arena.New(
		arena.WithSize(ctx.Int(SizeFlag.Name)),
		arena.WithMaxBlocks(ctx.Int(MaxBlocksFlag.Name)),
		arena.WithLogger(log),
	)
	if err != nil {
		return nil, nil, err
	}
	return a, log, nil
}

func cycleAction(ctx *cli.Context) error {
	return run(ctx, runCycle)
}

func workloadAction(ctx *cli.Context) error {
	return run(ctx, runWorkload)
}

func run(ctx *cli.Context, fn func(*arena.FixedArena, *zap.Logger, int) (result, error)) error {
	a, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	res, err := fn(a, log, ctx.Int(IterationsFlag.Name))
	if ctx.Bool(ReportFlag.Name) {
		a.Report()
	}
	st := a.Stats()
	fmt.Fprintf(ctx.App.Writer, "iterations=%d failures=%d allocated=%d peak=%d free=%d regions=%d\n",
		res.iterations, res.failures, st.Len, st.Peak, st.Free, st.Regions)
	return err
}

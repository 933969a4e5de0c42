//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/farcloser/strophe"
)

var errInvalidArgCount = errors.New("expected exactly one argument: audio file path")

//nolint:funlen // flag list
func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Segment a music file and extract spectral, rhythmic and tonal features",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			// Segmentation parameters.
			&cli.IntFlag{
				Name:  "min-peaks",
				Usage: "Target lower bound on detected boundaries",
				Value: 2,
			},
			&cli.IntFlag{
				Name:  "max-peaks",
				Usage: "Cap on detected boundaries, keeping the most prominent (0 = 3*min-peaks)",
			},
			&cli.IntFlag{
				Name:  "window-size",
				Usage: "Analysis window in samples",
				Value: 1024,
			},
			&cli.IntFlag{
				Name:  "hop-length",
				Usage: "Frame stride in samples",
				Value: 512,
			},
			&cli.FloatFlag{
				Name:  "min-gap",
				Usage: "Minimum spacing between boundaries in seconds",
				Value: 2.0,
			},
			&cli.FloatFlag{
				Name:  "short-ma",
				Usage: "Short moving-average span in seconds",
				Value: 0.50,
			},
			&cli.FloatFlag{
				Name:  "long-ma",
				Usage: "Long moving-average span in seconds",
				Value: 3.00,
			},
			&cli.BoolFlag{
				Name:  "include-boundaries",
				Usage: "Anchor results to the track start/end",
				Value: true,
			},

			// Output.
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the full result as JSON to this file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress the progress bar",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Include full per-frame feature arrays in output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			filePath := cmd.Args().First()

			if _, err := os.Stat(filePath); err != nil {
				return fmt.Errorf("cannot access %s: %w", filePath, err)
			}

			params := strophe.Parameters{
				MinPeaks:          cmd.Int("min-peaks"),
				MaxPeaks:          cmd.Int("max-peaks"),
				WindowSize:        cmd.Int("window-size"),
				HopLength:         cmd.Int("hop-length"),
				MinGapSeconds:     cmd.Float("min-gap"),
				ShortMASeconds:    cmd.Float("short-ma"),
				LongMASeconds:     cmd.Float("long-ma"),
				IncludeBoundaries: cmd.Bool("include-boundaries"),
			}

			progress, wait := progressReporter(cmd.Bool("quiet"))

			result, err := strophe.AnalyzeFile(ctx, filePath, params, progress)

			wait()

			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			if outputPath := cmd.String("output"); outputPath != "" {
				sink := &jsonFileSink{path: outputPath}
				if err := sink.Store(ctx, result.AnalysisID, result); err != nil {
					return err
				}
			}

			return outputResult(filePath, result, cmd.String("format"), cmd.Bool("debug"))
		},
	}
}

// progressReporter returns a ProgressFunc driving an mpb bar, plus a wait
// function to flush the bar before printing results. Quiet mode returns
// nil so the library skips reporting entirely.
func progressReporter(quiet bool) (strophe.ProgressFunc, func()) {
	if quiet {
		return nil, func() {}
	}

	container := mpb.New(mpb.WithWidth(64))
	bar := container.AddBar(100,
		mpb.PrependDecorators(
			decor.Name("Analyzing: "),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	progress := func(_ string, percent int) {
		bar.SetCurrent(int64(percent))
	}

	wait := func() {
		// Abandoned runs must not leave the bar hanging.
		bar.SetCurrent(100)
		container.Wait()
	}

	return progress, wait
}

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/urfave/cli/v3"
)

func digestCommand() *cli.Command {
	return &cli.Command{
		Name:      "digest",
		Usage:     "Produce a summary digest from a strophe JSONL report",
		ArgsUsage: "<report.jsonl>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "degenerate",
				Usage: "List tracks that produced trivial (0 or 1 segment) results",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return errors.New("expected exactly one argument: path to report.jsonl")
			}

			return runDigest(cmd.Args().First(), cmd.Bool("degenerate"))
		},
	}
}

func runDigest(reportPath string, listDegenerate bool) error {
	records, err := readRecords(reportPath)
	if err != nil {
		return err
	}

	printDigest(records)

	if listDegenerate {
		printDegenerate(records)
	}

	return nil
}

func readRecords(path string) ([]digestRecord, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified report files
	if err != nil {
		return nil, fmt.Errorf("opening report: %w", err)
	}
	defer file.Close()

	var records []digestRecord

	scanner := bufio.NewScanner(file)

	// Per-frame arrays make lines large.
	const maxLineSize = 64 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLineSize)

	for scanner.Scan() {
		var rec digestRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			records = append(records, digestRecord{Error: "parse error"})

			continue
		}

		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	return records, nil
}

//nolint:funlen // linear report printing
func printDigest(records []digestRecord) {
	total := len(records)
	failed := 0
	degenerate := 0
	segmentDist := map[int]int{}
	tempoDist := map[string]int{}

	var (
		totalDuration float64
		totalSegments int
		totalBeats    int
		totalOnsets   int
	)

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			failed++

			continue
		}

		segments := len(rec.Analysis.Segments)
		segmentDist[segments]++
		totalSegments += segments

		if segments <= 1 {
			degenerate++
		}

		global := rec.Analysis.Features.Global
		tempoDist[tempoBucket(global.Tempo)]++
		totalDuration += global.Duration
		totalBeats += global.BeatCount
		totalOnsets += global.OnsetCount
	}

	analyzed := total - failed

	fmt.Println("=== Strophe Report Digest ===")
	fmt.Println()
	fmt.Printf("Total tracks:  %d\n", total)
	fmt.Printf("Failed:        %d\n", failed)
	fmt.Printf("Analyzed:      %d\n", analyzed)
	fmt.Printf("Degenerate:    %d\n", degenerate)
	fmt.Println()

	if analyzed > 0 {
		fmt.Println("--- Collection ---")
		fmt.Printf("  Total audio:    %.1f minutes\n", totalDuration/60)
		fmt.Printf("  Avg segments:   %.1f per track\n", float64(totalSegments)/float64(analyzed))
		fmt.Printf("  Avg beats:      %.0f per track\n", float64(totalBeats)/float64(analyzed))
		fmt.Printf("  Avg onsets:     %.0f per track\n", float64(totalOnsets)/float64(analyzed))
		fmt.Println()
	}

	fmt.Println("--- Segments Per Track ---")

	maxSegments := 0
	for k := range segmentDist {
		if k > maxSegments {
			maxSegments = k
		}
	}

	for i := range maxSegments + 1 {
		if count, ok := segmentDist[i]; ok && count > 0 {
			fmt.Printf("  %d segments:  %d tracks\n", i, count)
		}
	}

	fmt.Println()

	fmt.Println("--- Tempo Distribution ---")

	for _, bucket := range tempoBucketOrder {
		if count, ok := tempoDist[bucket]; ok && count > 0 {
			fmt.Printf("  %s:  %d tracks\n", bucket, count)
		}
	}
}

//nolint:gochecknoglobals // configuration data, effectively const
var tempoBucketOrder = []string{
	"undetected",
	"< 60 BPM",
	"60-90 BPM",
	"90-120 BPM",
	"120-150 BPM",
	"150-180 BPM",
	"> 180 BPM",
}

func tempoBucket(bpm float64) string {
	switch {
	case bpm <= 0:
		return "undetected"
	case bpm < 60:
		return "< 60 BPM"
	case bpm < 90:
		return "60-90 BPM"
	case bpm < 120:
		return "90-120 BPM"
	case bpm < 150:
		return "120-150 BPM"
	case bpm < 180:
		return "150-180 BPM"
	default:
		return "> 180 BPM"
	}
}

func printDegenerate(records []digestRecord) {
	fmt.Println()

	type entry struct {
		file     string
		segments int
		duration float64
	}

	var entries []entry

	for _, rec := range records {
		if rec.Error != "" || rec.Analysis == nil {
			continue
		}

		if len(rec.Analysis.Segments) > 1 {
			continue
		}

		file := rec.File
		if file == "" {
			file = "(redacted)"
		}

		entries = append(entries, entry{
			file:     file,
			segments: len(rec.Analysis.Segments),
			duration: rec.Analysis.Metadata.DurationSeconds,
		})
	}

	if len(entries) == 0 {
		fmt.Println("No degenerate tracks")

		return
	}

	slices.SortFunc(entries, func(a, b entry) int {
		return a.segments - b.segments
	})

	fmt.Printf("=== Degenerate tracks: %d ===\n\n", len(entries))

	for _, e := range entries {
		fmt.Printf("  %s\n", e.file)
		fmt.Printf("    segments: %d  duration: %.1fs\n", e.segments, e.duration)
	}
}

// Package bench provides benchmarking primitives for the retok bench command.
package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/go-retok/internal/tokenizer"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and size metadata for a single
// tokenize-and-rebuild run.
type RunResult struct {
	Index      int
	Cold       bool // true for the first run
	Duration   time.Duration
	Bytes      int
	Segments   int
	Throughput float64 // MB/s
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Durations extracts the run durations in order.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}
	return out
}

// ---------------------------------------------------------------------------
// Throughput
// ---------------------------------------------------------------------------

// CalcThroughput returns processed megabytes (1e6 bytes) per second.
// Returns 0 for a non-positive duration.
func CalcThroughput(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / 1e6 / d.Seconds()
}

// MeanThroughput averages the throughput of runs.
func MeanThroughput(runs []RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, r := range runs {
		total += r.Throughput
	}
	return total / float64(len(runs))
}

// CheckThroughputFloor returns an error if mean falls below floor.
// A floor of 0 disables the gate.
func CheckThroughputFloor(mean, floor float64) error {
	if floor <= 0 {
		return nil
	}
	if mean < floor {
		return fmt.Errorf("mean throughput %.3f MB/s below floor %.3f MB/s", mean, floor)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Runner
// ---------------------------------------------------------------------------

// Run tokenizes and rebuilds text runs times. Every run must reproduce text
// exactly; a mismatch or tokenizer error aborts the benchmark.
func Run(ctx context.Context, text string, runs int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	results := make([]RunResult, 0, runs)
	for i := 0; i < runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		tok, err := tokenizer.New(text)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
		out := tok.UntokenizeWith(tok.WordTokens())
		dur := time.Since(start)

		if out != text {
			return nil, fmt.Errorf("run %d failed: rebuilt text differs from input", i+1)
		}

		results = append(results, RunResult{
			Index:      i,
			Cold:       i == 0,
			Duration:   dur,
			Bytes:      len(text),
			Segments:   tok.Len(),
			Throughput: CalcThroughput(len(text), dur),
		})
	}

	return results, nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %10s  %10s\n", "Run", "Cold", "µs", "Segments", "MB/s")
	fmt.Fprintln(sb, strings.Repeat("-", 48))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10d  %10d  %10.2f\n",
			r.Index+1,
			cold,
			r.Duration.Microseconds(),
			r.Segments,
			r.Throughput,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 48))
	fmt.Fprintf(sb, "%-5s  %-5s  %10d  (min)\n", "", "", stats.Min.Microseconds())
	fmt.Fprintf(sb, "%-5s  %-5s  %10d  (mean)\n", "", "", stats.Mean.Microseconds())
	fmt.Fprintf(sb, "%-5s  %-5s  %10d  (max)\n", "", "", stats.Max.Microseconds())

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index      int     `json:"index"`
	Cold       bool    `json:"cold"`
	DurationUS int64   `json:"duration_us"`
	Bytes      int     `json:"bytes"`
	Segments   int     `json:"segments"`
	MBPerSec   float64 `json:"mb_per_sec"`
}

type jsonStats struct {
	MinUS  int64 `json:"min_us"`
	MeanUS int64 `json:"mean_us"`
	MaxUS  int64 `json:"max_us"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinUS:  stats.Min.Microseconds(),
			MeanUS: stats.Mean.Microseconds(),
			MaxUS:  stats.Max.Microseconds(),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:      r.Index,
			Cold:       r.Cold,
			DurationUS: r.Duration.Microseconds(),
			Bytes:      r.Bytes,
			Segments:   r.Segments,
			MBPerSec:   r.Throughput,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}

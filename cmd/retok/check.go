package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/example/go-retok/internal/text"
	"github.com/example/go-retok/internal/tokenizer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type checkResult struct {
	Path  string
	Stats text.Stats
	Err   error
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Verify that files tokenize and rebuild byte-for-byte",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			results, err := runCheck(cmd.Context(), args, cfg.Check.Concurrency)
			if err != nil {
				return err
			}
			return reportCheck(cmd.OutOrStdout(), results)
		},
	}

	return cmd
}

// runCheck checks every path with at most limit files in flight. Per-file
// failures are recorded in the results; only cancellation aborts the run.
func runCheck(ctx context.Context, paths []string, limit int) ([]checkResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]checkResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(path string) checkResult {
	res := checkResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read: %w", err)
		return res
	}

	tok, err := tokenizer.New(string(data))
	if err != nil {
		res.Err = err
		return res
	}
	res.Stats = text.Summarize(tok)

	if got := tok.Untokenize(); got != string(data) {
		res.Err = fmt.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(data))
	}
	return res
}

func reportCheck(w io.Writer, results []checkResult) error {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			slog.Warn("check failed", "path", r.Path, "error", r.Err)
			if _, err := fmt.Fprintf(w, "FAIL %s: %v\n", r.Path, r.Err); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "ok   %s (%d segments, %d words)\n", r.Path, r.Stats.Segments, r.Stats.Words); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}
	return nil
}

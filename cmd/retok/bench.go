package main

import (
	"fmt"

	"github.com/example/go-retok/internal/bench"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		in        inputFlags
		runs      int
		format    string
		minMBPerS float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark tokenize and rebuild throughput",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			input, err := in.read(cmd)
			if err != nil {
				return err
			}

			results, err := bench.Run(cmd.Context(), input, runs)
			if err != nil {
				return err
			}

			stats := bench.ComputeStats(bench.Durations(results))

			switch format {
			case "json":
				bench.FormatJSON(results, stats, cmd.OutOrStdout())
			default:
				bench.FormatTable(results, stats, cmd.OutOrStdout())
			}

			return bench.CheckThroughputFloor(bench.MeanThroughput(results), minMBPerS)
		},
	}

	in.register(cmd)
	cmd.Flags().IntVar(&runs, "runs", 5, "Number of tokenize/rebuild runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minMBPerS, "min-throughput", 0, "Exit non-zero if mean MB/s falls below this value (0 = disabled)")

	return cmd
}

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/go-retok/internal/config"
	"github.com/example/go-retok/internal/text"
	"github.com/example/go-retok/internal/tokenizer"
	"github.com/spf13/cobra"
)

func newUntokenizeCmd() *cobra.Command {
	var in inputFlags
	var replace []string
	var drop []string
	var policy string

	cmd := &cobra.Command{
		Use:   "untokenize",
		Short: "Rebuild the input with replaced words and optionally dropped kinds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			opts, err := buildRebuildOptions(replace, drop, policy, cfg.Untokenize.Policy)
			if err != nil {
				return err
			}

			input, err := in.read(cmd)
			if err != nil {
				return err
			}

			tok, err := tokenizer.New(input)
			if err != nil {
				return err
			}

			out, err := text.Rebuild(tok, opts)
			if err != nil {
				return err
			}

			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}

	in.register(cmd)
	cmd.Flags().StringArrayVar(&replace, "replace", nil, "Replace segment text by index (INDEX=TEXT, repeatable)")
	cmd.Flags().StringSliceVar(&drop, "drop", nil, "Segment kinds to omit (punctuation,whitespace)")
	cmd.Flags().StringVar(&policy, "policy", "", "Override untokenize.policy for this run (strict|last-write-wins)")

	return cmd
}

func buildRebuildOptions(replace, drop []string, flagPolicy, cfgPolicy string) (text.RebuildOptions, error) {
	var opts text.RebuildOptions

	p := strings.TrimSpace(flagPolicy)
	if p == "" {
		p = cfgPolicy
	}
	policy, err := config.NormalizePolicy(p)
	if err != nil {
		return opts, err
	}
	opts.Strict = policy == config.PolicyStrict

	if len(replace) > 0 {
		opts.Replace = make(map[int]string, len(replace))
	}
	for _, r := range replace {
		idx, val, ok := strings.Cut(r, "=")
		if !ok {
			return opts, fmt.Errorf("invalid --replace %q (expected INDEX=TEXT)", r)
		}
		i, err := strconv.Atoi(strings.TrimSpace(idx))
		if err != nil {
			return opts, fmt.Errorf("invalid --replace index %q: %w", idx, err)
		}
		opts.Replace[i] = val
	}

	for _, d := range drop {
		k, err := tokenizer.ParseKind(d)
		if err != nil {
			return opts, err
		}
		opts.Drop = append(opts.Drop, k)
	}

	return opts, nil
}

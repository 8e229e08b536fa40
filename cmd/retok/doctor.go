package main

import (
	"errors"
	"fmt"

	"github.com/example/go-retok/internal/doctor"
	"github.com/example/go-retok/internal/server"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	var (
		dicts      []string
		skipListen bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local configuration and tokenizer checks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			dcfg := doctor.Config{
				Policy:       cfg.Untokenize.Policy,
				ListenAddr:   cfg.Server.ListenAddr,
				Dictionaries: dicts,
			}
			if !skipListen {
				dcfg.ProbeListen = doctor.ProbeListen
			}

			out := cmd.OutOrStdout()
			result := doctor.Run(dcfg, out)

			// An unknown log level falls back to info at startup, so it is
			// only surfaced here.
			if _, err := server.ParseLogLevel(cfg.LogLevel); err != nil {
				result.AddFailure(fmt.Sprintf("log level: %v", err))
				_, _ = fmt.Fprintf(out, "%s log level: %v\n", doctor.FailMark, err)
			} else {
				_, _ = fmt.Fprintf(out, "%s log level: %s\n", doctor.PassMark, cfg.LogLevel)
			}

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(out, "doctor checks passed")

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&dicts, "dict", nil, "Replacement dictionaries to validate")
	cmd.Flags().BoolVar(&skipListen, "skip-listen", false, "Skip probing server.listen_addr")

	return cmd
}

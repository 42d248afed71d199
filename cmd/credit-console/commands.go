package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"credit-console/internal/common/config"
	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/models"
)

// settleMargin is added to animation durations before the final print.
const settleMargin = 250 * time.Millisecond

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Load statistics, options and charts and print the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			wait := config.GetDuration(max(opts.cfg.UI.CreditStatDuration, opts.cfg.UI.FieldStatDuration)) + settleMargin
			if err := s.run(func(ctx context.Context) {
				s.loop.After(wait, s.loop.Stop)
			}); err != nil {
				return err
			}

			s.print(cmd.OutOrStdout())
			if opts.cfg.Charts.Enabled {
				fmt.Fprintf(cmd.OutOrStdout(), "Grafik disimpan di %s\n", opts.cfg.Charts.OutputDir)
			}
			return nil
		},
	}
}

type evaluateFlags struct {
	businessField string
	scale         string
	usageType     string
}

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	flags := &evaluateFlags{}

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Submit one evaluation and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(opts)
			if err != nil {
				return err
			}
			defer s.close()

			req := models.EvaluationRequest{
				BusinessField: flags.businessField,
				Scale:         flags.scale,
				UsageType:     flags.usageType,
			}
			ui := opts.cfg.UI
			settle := config.GetDuration(ui.ScoreDuration) + config.GetDuration(ui.SectionRevealDelay) + settleMargin

			var evalErr error
			runErr := s.run(func(ctx context.Context) {
				if err := selectAll(s, req); err != nil {
					evalErr = err
					s.loop.Stop()
					return
				}
				if err := s.o.Submit(ctx, func(err error) {
					evalErr = err
					s.loop.After(settle, s.loop.Stop)
				}); err != nil {
					evalErr = err
					s.loop.Stop()
				}
			})
			if runErr != nil {
				return runErr
			}

			s.print(cmd.OutOrStdout())
			if evalErr != nil {
				return fmt.Errorf("evaluation failed: %s", apperrors.UserMessage(evalErr))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.businessField, "business-field", "", "business field (lapangan usaha)")
	cmd.Flags().StringVar(&flags.scale, "scale", "", "business scale (skala usaha)")
	cmd.Flags().StringVar(&flags.usageType, "usage-type", "", "credit usage type (jenis penggunaan)")
	return cmd
}

func selectAll(s *session, req models.EvaluationRequest) error {
	for _, f := range models.AllFields {
		v := req.Value(f)
		if v == "" {
			continue
		}
		if err := s.o.Select(f, v); err != nil {
			return err
		}
	}
	return nil
}

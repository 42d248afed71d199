package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"credit-console/internal/common/config"
	"credit-console/internal/common/logger"
)

type rootOptions struct {
	configPath string
	baseURL    string

	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "credit-console",
		Short:         "Terminal console for the UMKM credit evaluation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.zapLog != nil {
				_ = opts.zapLog.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a config file (default: configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "scoring service base URL, overrides service.base_url")

	cmd.AddCommand(newDashboardCmd(opts), newEvaluateCmd(opts))
	return cmd
}

func (o *rootOptions) load() error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}
	if o.baseURL != "" {
		cfg.Service.BaseURL = o.baseURL
	}

	o.cfg = cfg
	o.zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	o.log = logger.NewZapAdapter(o.zapLog).WithFields(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"credit-console/internal/charts"
	"credit-console/internal/common/config"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/observability"
	"credit-console/internal/dataclient"
	"credit-console/internal/scheduler"
	"credit-console/internal/surface"
	"credit-console/internal/ui"
)

// session is one console run: a real-time loop driving an in-memory surface.
type session struct {
	cfg      *config.Config
	log      logger.Logger
	loop     *scheduler.Loop
	mem      *surface.Memory
	recorder *charts.RecordingEngine
	obs      *observability.Observability
	metrics  *metricsServer
	o        *ui.Orchestrator
}

func newSession(opts *rootOptions) (*session, error) {
	cfg, log := opts.cfg, opts.log

	client, err := dataclient.New(cfg.Service, log)
	if err != nil {
		return nil, fmt.Errorf("data client: %w", err)
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("OpenTelemetry metrics disabled", map[string]interface{}{"error": err.Error()})
		obs = nil
	}

	recorder := charts.NewRecordingEngine()
	engines := charts.MultiEngine{recorder}
	if cfg.Charts.Enabled {
		engines = append(engines, charts.NewPNGEngine(cfg.Charts.OutputDir, cfg.Charts.Width, cfg.Charts.Height, log))
	}

	loop := scheduler.New(
		scheduler.WithFrameInterval(config.GetDuration(cfg.UI.FrameInterval)),
		scheduler.WithLogger(log),
	)
	mem := surface.NewMemory()

	s := &session{
		cfg:      cfg,
		log:      log,
		loop:     loop,
		mem:      mem,
		recorder: recorder,
		obs:      obs,
	}
	s.o = ui.New(ui.Deps{
		Config:        cfg,
		Client:        client,
		Surface:       mem,
		Loop:          loop,
		Engine:        engines,
		Logger:        log,
		Observability: obs,
	})
	if cfg.Metrics.Enabled {
		s.metrics = startMetricsServer(cfg.Metrics.Address, log)
	}
	return s, nil
}

// run starts the session, calls onReady on the loop once startup is done and
// blocks until the loop is stopped or the process is interrupted.
func (s *session) run(onReady func(ctx context.Context)) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.loop.Post(func() {
		s.o.Start(ctx, func() { onReady(ctx) })
	})

	err := s.loop.Run(ctx)
	if err == context.Canceled {
		s.log.Info("Interrupted", nil)
		err = nil
	}
	return err
}

// print writes the terminal view of the surface and every drawn chart.
func (s *session) print(w io.Writer) {
	term := surface.NewTerminal()
	fmt.Fprintln(w, term.Render(s.mem.Snapshot()))
	for _, name := range s.recorder.Names() {
		cfg, _ := s.recorder.Get(name)
		fmt.Fprintln(w, term.RenderChart(cfg))
	}
}

func (s *session) close() {
	if s.metrics != nil {
		s.metrics.shutdown()
	}
	s.obs.Shutdown()
}

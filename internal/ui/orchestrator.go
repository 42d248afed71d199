// Package ui drives one console session: startup loading, the form,
// evaluation results, reset and keyboard shortcuts.
package ui

import (
	"context"
	"math"
	"time"

	"credit-console/internal/animator"
	"credit-console/internal/charts"
	"credit-console/internal/common/config"
	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/common/format"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"
	"credit-console/internal/common/observability"
	"credit-console/internal/dataclient"
	"credit-console/internal/form"
	"credit-console/internal/models"
	"credit-console/internal/notify"
	"credit-console/internal/render"
	"credit-console/internal/surface"
	"credit-console/internal/tabs"
)

type SessionState int

const (
	Idle SessionState = iota
	Submitting
	ResultShown
	Error
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case ResultShown:
		return "result_shown"
	case Error:
		return "error"
	}
	return "unknown"
}

// Messages shown to the user.
const (
	MsgOptionsFailed          = "Gagal memuat opsi. Silakan refresh halaman."
	MsgStatUnavailable        = "N/A"
	MsgCategoryPlaceholder    = "Menunggu Evaluasi"
	MsgRecommendationsPending = "Menunggu hasil evaluasi..."
)

// Chart names passed to the engine.
const (
	ChartBusinessFields = "business-fields"
	ChartScales         = "scales"
	ChartUsageTypes     = "usage-types"
)

// Startup stage names used in logs and metrics.
const (
	StageStatistics = "statistics"
	StageOptions    = "options"
	StageCharts     = "charts"
)

// Loop is the event loop a session runs on.
type Loop interface {
	render.Scheduler
	form.Runner
}

type Deps struct {
	Config        *config.Config
	Client        dataclient.DataClient
	Surface       surface.Surface
	Loop          Loop
	Engine        charts.Engine
	Logger        logger.Logger
	Observability *observability.Observability
}

type Orchestrator struct {
	cfg     *config.Config
	client  dataclient.DataClient
	surface surface.Surface
	loop    Loop
	engine  charts.Engine
	logger  logger.Logger
	obs     *observability.Observability
	errs    *apperrors.ErrorHandler

	form     *form.Controller
	tabs     *tabs.Controller
	renderer *render.Renderer
	notifier *notify.Notifier

	state         SessionState
	resultVisible bool
	ready         bool
	// failures counts submission failures; only the latest one's dismissal
	// ends the Error state.
	failures     uint64
	stats        *models.Statistics
	chartConfigs map[string]charts.Config
}

func New(deps Deps) *Orchestrator {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	engine := deps.Engine
	if engine == nil {
		engine = charts.NewRecordingEngine()
	}

	o := &Orchestrator{
		cfg:          cfg,
		client:       deps.Client,
		surface:      deps.Surface,
		loop:         deps.Loop,
		engine:       engine,
		logger:       logger.ForComponent(log, "ui"),
		obs:          deps.Observability,
		chartConfigs: make(map[string]charts.Config),
	}
	o.errs = apperrors.NewErrorHandler(o.logger)
	o.form = form.New(deps.Surface, deps.Client, deps.Loop, log)
	o.tabs = tabs.NewDefault(deps.Surface)
	o.renderer = render.NewRenderer(deps.Surface, deps.Loop, render.TimingsFromConfig(cfg.UI), log, deps.Observability)
	o.notifier = notify.New(deps.Surface, deps.Loop,
		config.GetDuration(cfg.Notifications.DismissAfter),
		config.GetDuration(cfg.Notifications.ExitDuration),
		log)
	return o
}

func (o *Orchestrator) State() SessionState { return o.state }

// Ready reports whether every startup stage has finished.
func (o *Orchestrator) Ready() bool { return o.ready }

func (o *Orchestrator) ResultVisible() bool { return o.resultVisible }

func (o *Orchestrator) Form() *form.Controller { return o.form }

func (o *Orchestrator) Tabs() *tabs.Controller { return o.tabs }

// Statistics returns the last loaded statistics, or nil.
func (o *Orchestrator) Statistics() *models.Statistics { return o.stats }

// Chart returns the config built for a named chart.
func (o *Orchestrator) Chart(name string) (charts.Config, bool) {
	c, ok := o.chartConfigs[name]
	return c, ok
}

// Start runs statistics, options and charts one after another. A failing
// stage never stops the next one. onReady runs on the loop when all three
// are done. Must be called on the loop.
func (o *Orchestrator) Start(ctx context.Context, onReady func()) {
	o.surface.SetFormInteractive(false)
	o.showResultPlaceholders()
	o.tabs.Reset()

	o.logger.Info("Session starting", map[string]interface{}{
		"baseUrl": o.cfg.Service.BaseURL,
	})

	o.loadStatistics(ctx, func() {
		o.loadOptions(ctx, func() {
			o.loadCharts(ctx, func() {
				o.ready = true
				o.logger.Info("Session ready", nil)
				if onReady != nil {
					onReady()
				}
			})
		})
	})
}

func (o *Orchestrator) loadStatistics(ctx context.Context, next func()) {
	started := time.Now()
	o.loop.Go(ctx, func(ctx context.Context) func() {
		stats, err := o.client.FetchStatistics(ctx)
		return func() {
			defer next()
			if err != nil {
				o.stageFailed(ctx, StageStatistics, started, err)
				o.surface.SetStat(surface.StatTotalCredit, MsgStatUnavailable)
				o.surface.SetStat(surface.StatBusinessFields, MsgStatUnavailable)
				return
			}
			o.stats = stats
			o.showStatistics(stats)
			o.stageSucceeded(ctx, StageStatistics, started)
		}
	})
}

func (o *Orchestrator) showStatistics(stats *models.Statistics) {
	unit := o.cfg.UI.Unit
	if total, ok := format.ParseLeadingInt(stats.TotalCredit); ok {
		animator.Animate(o.loop, 0, float64(total), config.GetDuration(o.cfg.UI.CreditStatDuration), func(v float64) {
			o.surface.SetStat(surface.StatTotalCredit, format.WithUnit(v, unit))
		})
	} else {
		o.logger.Warn("Total credit is not numeric", map[string]interface{}{
			"totalCredit": stats.TotalCredit,
		})
		o.surface.SetStat(surface.StatTotalCredit, stats.TotalCredit)
	}

	animator.Animate(o.loop, 0, float64(stats.TotalBusinessFields), config.GetDuration(o.cfg.UI.FieldStatDuration), func(v float64) {
		o.surface.SetStat(surface.StatBusinessFields, format.Integer(int64(math.Round(v))))
	})

	o.logger.Debug("Statistics loaded", map[string]interface{}{
		"totalCredit":    stats.TotalCredit,
		"businessFields": stats.TotalBusinessFields,
		"topFields":      len(stats.TopBusinessFields),
		"lowRisk":        stats.RiskDistribution.Low,
		"mediumRisk":     stats.RiskDistribution.Medium,
		"highRisk":       stats.RiskDistribution.High,
	})
}

func (o *Orchestrator) loadOptions(ctx context.Context, next func()) {
	started := time.Now()
	o.loop.Go(ctx, func(ctx context.Context) func() {
		opts, err := o.client.FetchOptions(ctx)
		return func() {
			defer next()
			if err != nil {
				o.stageFailed(ctx, StageOptions, started, err)
				o.notifier.Error(MsgOptionsFailed, nil)
				return
			}
			o.form.LoadOptions(opts)
			o.stageSucceeded(ctx, StageOptions, started)
		}
	})
}

func (o *Orchestrator) loadCharts(ctx context.Context, next func()) {
	started := time.Now()
	o.loop.Go(ctx, func(ctx context.Context) func() {
		data, err := o.client.FetchChartData(ctx)
		return func() {
			defer next()
			if err != nil {
				o.stageFailed(ctx, StageCharts, started, err)
				return
			}
			o.drawCharts(ctx, data)
			o.stageSucceeded(ctx, StageCharts, started)
		}
	})
}

func (o *Orchestrator) drawCharts(ctx context.Context, data *models.ChartData) {
	ui := o.cfg.UI
	built := []struct {
		name string
		cfg  charts.Config
	}{
		{ChartBusinessFields, charts.BuildRanked(data.BusinessFields, ui.TopN, charts.Options{
			Title: "Top Lapangan Usaha", Unit: ui.Unit, LabelMaxLength: ui.LabelMaxLength,
		})},
		{ChartScales, charts.BuildProportion(data.Scales, charts.KindDoughnut, charts.Options{
			Title: "Distribusi Skala Usaha", Unit: ui.Unit,
		})},
		{ChartUsageTypes, charts.BuildProportion(data.UsageTypes, charts.KindPie, charts.Options{
			Title: "Jenis Penggunaan Kredit", Unit: ui.Unit,
		})},
	}

	for _, b := range built {
		o.chartConfigs[b.name] = b.cfg
		if err := o.engine.Draw(ctx, b.name, b.cfg); err != nil {
			o.errs.Handle(StageCharts, apperrors.NewChartRenderFailedError(b.name, err))
		}
	}
}

func (o *Orchestrator) stageSucceeded(ctx context.Context, stage string, started time.Time) {
	metrics.StartupStages.WithLabelValues(stage, metrics.OutcomeSuccess).Inc()
	o.obs.RecordStage(ctx, stage, time.Since(started), metrics.OutcomeSuccess)
}

func (o *Orchestrator) stageFailed(ctx context.Context, stage string, started time.Time, err error) {
	stdErr := o.errs.Handle(stage, err)
	outcome := outcomeOf(stdErr.Code)
	metrics.StartupStages.WithLabelValues(stage, outcome).Inc()
	o.obs.RecordStage(ctx, stage, time.Since(started), outcome)
}

// Select forwards a user choice to the form.
func (o *Orchestrator) Select(field models.Field, value string) error {
	return o.form.Select(field, value)
}

// SwitchTab activates a detail tab. Unknown tabs are ignored.
func (o *Orchestrator) SwitchTab(tab string) bool {
	return o.tabs.SwitchTo(tab)
}

// Submit sends the form. Validation failures and service errors become
// notifications; the previous result stays on screen. done, if set, runs
// once the submission has been rendered or has failed.
func (o *Orchestrator) Submit(ctx context.Context, done func(error)) error {
	err := o.form.Submit(ctx, func(req models.EvaluationRequest, result *models.EvaluationResult, err error) {
		if err != nil {
			o.submissionFailed(ctx, err)
		} else {
			o.showResult(ctx, result)
		}
		if done != nil {
			done(err)
		}
	})
	if err != nil {
		if apperrors.IsSubmissionBusy(err) {
			o.logger.Debug("Submission ignored, one is already in flight", nil)
			return err
		}
		stdErr := o.errs.Handle("submit", err)
		o.notifier.Error(stdErr.Message, nil)
		return err
	}

	o.state = Submitting
	return nil
}

func (o *Orchestrator) showResult(ctx context.Context, result *models.EvaluationResult) {
	view := o.renderer.Render(ctx, result)
	o.state = ResultShown
	o.resultVisible = true

	metrics.Evaluations.WithLabelValues(view.Category.Text).Inc()
	o.obs.RecordSubmission(ctx, metrics.OutcomeSuccess)
	o.logger.Info("Evaluation shown", map[string]interface{}{
		"score":    view.Score,
		"category": view.Category.Text,
	})
}

func (o *Orchestrator) submissionFailed(ctx context.Context, err error) {
	stdErr := o.errs.Handle("evaluate", err)
	metrics.Evaluations.WithLabelValues("failed").Inc()
	o.obs.RecordSubmission(ctx, outcomeOf(stdErr.Code))

	o.failures++
	gen := o.failures
	o.state = Error
	o.notifier.Error(stdErr.Message, func() {
		if gen != o.failures || o.state != Error {
			return
		}
		if o.resultVisible {
			o.state = ResultShown
		} else {
			o.state = Idle
		}
	})
}

// Reset clears the form and the result area and returns to the input tab.
func (o *Orchestrator) Reset() {
	o.form.Reset()
	o.renderer.Hide()
	o.showResultPlaceholders()
	o.tabs.Reset()
	o.resultVisible = false
	o.state = Idle
	o.logger.Debug("Session reset", nil)
}

func (o *Orchestrator) showResultPlaceholders() {
	o.surface.SetScore("0")
	o.surface.SetCategory(surface.Category{Text: MsgCategoryPlaceholder})
	o.surface.SetRecommendations([]string{MsgRecommendationsPending})
	o.surface.RevealRecommendation(0)
	o.surface.SetVisualization(surface.Visualization{State: surface.VisualizationPlaceholder})
	o.surface.ClearMembershipPanels()
}

func outcomeOf(code apperrors.ErrorCode) string {
	switch code {
	case apperrors.ErrCodeNetwork:
		return metrics.OutcomeNetworkError
	case apperrors.ErrCodeService:
		return metrics.OutcomeServiceError
	}
	return string(code)
}

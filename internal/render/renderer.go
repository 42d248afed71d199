package render

import (
	"context"
	"fmt"
	"time"

	"credit-console/internal/animator"
	"credit-console/internal/common/config"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/observability"
	"credit-console/internal/models"
	"credit-console/internal/scheduler"
	"credit-console/internal/surface"
)

// Scheduler is the loop the renderer schedules its reveal on.
type Scheduler interface {
	scheduler.FrameScheduler
	scheduler.TimerScheduler
}

// Timings of the reveal sequence.
type Timings struct {
	Score         time.Duration
	RevealStep    time.Duration
	BarFillDelay  time.Duration
	SectionReveal time.Duration
	SectionHide   time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Score:         2000 * time.Millisecond,
		RevealStep:    100 * time.Millisecond,
		BarFillDelay:  100 * time.Millisecond,
		SectionReveal: 100 * time.Millisecond,
		SectionHide:   300 * time.Millisecond,
	}
}

func TimingsFromConfig(ui config.UIConfig) Timings {
	return Timings{
		Score:         config.GetDuration(ui.ScoreDuration),
		RevealStep:    config.GetDuration(ui.RevealStep),
		BarFillDelay:  config.GetDuration(ui.BarFillDelay),
		SectionReveal: config.GetDuration(ui.SectionRevealDelay),
		SectionHide:   config.GetDuration(ui.SectionHideDelay),
	}
}

// Renderer writes results onto a surface. It owns the timers and the score
// animation of the result it last rendered.
type Renderer struct {
	surface surface.Surface
	loop    Scheduler
	timings Timings
	logger  logger.Logger
	obs     *observability.Observability

	pending []*scheduler.Timer
	score   *animator.Animation
}

func NewRenderer(s surface.Surface, loop Scheduler, timings Timings, log logger.Logger, obs *observability.Observability) *Renderer {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Renderer{
		surface: s,
		loop:    loop,
		timings: timings,
		logger:  logger.ForComponent(log, "render"),
		obs:     obs,
	}
}

// Render shows result. Every step runs even if an earlier one fails.
func (r *Renderer) Render(ctx context.Context, result *models.EvaluationResult) View {
	started := time.Now()
	r.Cancel()

	view := BuildView(result)
	if view.ScoreClamped {
		r.logger.Warn("Score outside 0-100, clamped", map[string]interface{}{
			"score":   view.RawScore,
			"clamped": view.Score,
		})
	}

	r.step("score", func() { r.animateScore(view.Score) })
	r.step("category", func() { r.surface.SetCategory(view.Category) })
	r.step("input", func() { r.surface.SetInputEcho(view.Input) })
	r.step("figures", func() { r.surface.SetAnalysisFigures(view.Figures) })
	r.step("recommendations", func() { r.showRecommendations(view.Recommendations) })
	r.step("visualization", func() {
		if view.VisualizationErr != nil {
			r.logger.Warn("Visualization unusable, showing placeholder", map[string]interface{}{
				"error": view.VisualizationErr.Error(),
			})
		}
		r.surface.SetVisualization(view.Visualization)
	})
	r.step("membership", func() { r.showMembership(view.Groups) })
	r.step("section", func() {
		r.schedule(r.timings.SectionReveal, func() { r.surface.SetResultVisible(true) })
	})

	r.obs.RecordRender(ctx, time.Since(started))
	r.logger.Debug("Result rendered", map[string]interface{}{
		"score":           view.Score,
		"category":        view.Category.Text,
		"recommendations": len(view.Recommendations),
	})
	return view
}

// Hide hides the result section after the hide delay.
func (r *Renderer) Hide() {
	r.Cancel()
	r.schedule(r.timings.SectionHide, func() { r.surface.SetResultVisible(false) })
}

// Cancel stops pending reveal timers and detaches the running score
// animation so it no longer writes to the surface.
func (r *Renderer) Cancel() {
	for _, t := range r.pending {
		t.Stop()
	}
	r.pending = nil
	if r.score != nil {
		r.score.Discard()
		r.score = nil
	}
}

func (r *Renderer) animateScore(target float64) {
	r.surface.SetScore(ScoreText(0))
	r.score = animator.Animate(r.loop, 0, target, r.timings.Score, func(v float64) {
		r.surface.SetScore(ScoreText(v))
	})
}

func (r *Renderer) showRecommendations(items []string) {
	r.surface.SetRecommendations(items)
	for i := range items {
		i := i
		r.schedule(time.Duration(i)*r.timings.RevealStep, func() { r.surface.RevealRecommendation(i) })
	}
}

func (r *Renderer) showMembership(groups []PaneGroup) {
	r.surface.ClearMembershipPanels()
	index := map[surface.Pane]int{}
	for _, pg := range groups {
		pane, gi := pg.Pane, index[pg.Pane]
		index[pg.Pane]++
		r.surface.AddMembershipGroup(pane, pg.Group)
		r.schedule(r.timings.BarFillDelay, func() { r.surface.FillMembershipBars(pane, gi) })
	}
}

func (r *Renderer) schedule(d time.Duration, fn func()) {
	r.pending = append(r.pending, r.loop.After(d, fn))
}

func (r *Renderer) step(name string, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Render step failed", map[string]interface{}{
				"step":  name,
				"panic": fmt.Sprint(rec),
			})
		}
	}()
	fn()
}

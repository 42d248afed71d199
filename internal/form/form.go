// Package form holds the three-field evaluation form and its single-flight
// submission.
package form

import (
	"context"
	"fmt"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/common/logger"
	"credit-console/internal/common/metrics"
	"credit-console/internal/dataclient"
	"credit-console/internal/models"
)

type State int

const (
	Unfilled State = iota
	PartiallyFilled
	Filled
)

func (s State) String() string {
	switch s {
	case Unfilled:
		return "unfilled"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// View is the part of the surface the form drives.
type View interface {
	SetOptions(field models.Field, values []string)
	SetFormInteractive(interactive bool)
	SetSelection(field models.Field, value string)
	SetSubmitBusy(busy bool)
}

// Runner executes blocking work off the event loop and runs the returned
// continuation back on it.
type Runner interface {
	Go(ctx context.Context, work func(ctx context.Context) func())
}

// DoneFunc receives the outcome of a submission, on the loop, after the busy
// flag has been released.
type DoneFunc func(req models.EvaluationRequest, result *models.EvaluationResult, err error)

type Controller struct {
	view   View
	client dataclient.DataClient
	runner Runner
	logger logger.Logger

	options  *models.OptionSet
	selected map[models.Field]string
	busy     bool
}

func New(view View, client dataclient.DataClient, runner Runner, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Controller{
		view:     view,
		client:   client,
		runner:   runner,
		logger:   logger.ForComponent(log, "form"),
		selected: make(map[models.Field]string),
	}
}

// LoadOptions replaces every option list and makes the form interactive.
// Selections that are no longer legal are cleared.
func (c *Controller) LoadOptions(opts *models.OptionSet) {
	if opts == nil {
		return
	}
	c.options = opts
	for _, f := range models.AllFields {
		c.view.SetOptions(f, nil)
		c.view.SetOptions(f, opts.Values(f))
		if v, ok := c.selected[f]; ok && !opts.Allows(f, v) {
			c.Clear(f)
		}
	}
	c.view.SetFormInteractive(true)

	c.logger.Info("Options loaded", map[string]interface{}{
		"businessFields": len(opts.BusinessFields),
		"scales":         len(opts.Scales),
		"usageTypes":     len(opts.UsageTypes),
	})
}

// Interactive reports whether options have been loaded.
func (c *Controller) Interactive() bool {
	return c.options != nil
}

// Select sets field to value. It fails before options are loaded and for
// values outside the option set.
func (c *Controller) Select(field models.Field, value string) error {
	if !c.Interactive() {
		return apperrors.NewNotInteractiveError(string(field))
	}
	if value == "" {
		c.Clear(field)
		return nil
	}
	if !c.options.Allows(field, value) {
		return apperrors.NewOptionNotAllowedError(string(field), value)
	}
	c.selected[field] = value
	c.view.SetSelection(field, value)
	return nil
}

func (c *Controller) Clear(field models.Field) {
	delete(c.selected, field)
	c.view.SetSelection(field, "")
}

// Reset clears every selection. Options and interactivity are kept.
func (c *Controller) Reset() {
	for _, f := range models.AllFields {
		c.Clear(f)
	}
}

func (c *Controller) State() State {
	switch len(c.selected) {
	case 0:
		return Unfilled
	case len(models.AllFields):
		return Filled
	default:
		return PartiallyFilled
	}
}

// Request returns the current selections as a request.
func (c *Controller) Request() models.EvaluationRequest {
	return models.EvaluationRequest{
		BusinessField: c.selected[models.FieldBusinessField],
		Scale:         c.selected[models.FieldScale],
		UsageType:     c.selected[models.FieldUsageType],
	}
}

// Validate returns a *errors.ValidationError naming the unset fields.
func (c *Controller) Validate() error {
	var missing []string
	for _, f := range models.AllFields {
		if c.selected[f] == "" {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError(missing)
	}
	return nil
}

func (c *Controller) Busy() bool {
	return c.busy
}

// Submit validates and issues one evaluation. While a submission is in
// flight further calls fail without touching the network. onDone runs on
// the loop after busy is released.
func (c *Controller) Submit(ctx context.Context, onDone DoneFunc) error {
	if c.busy {
		return apperrors.NewSubmissionBusyError()
	}
	if err := c.Validate(); err != nil {
		return err
	}

	req := c.Request()
	c.setBusy(true)

	c.logger.Info("Submitting evaluation", map[string]interface{}{
		"businessField": req.BusinessField,
		"scale":         req.Scale,
		"usageType":     req.UsageType,
	})

	c.runner.Go(ctx, func(ctx context.Context) func() {
		result, err := c.evaluate(ctx, req)
		return func() {
			c.setBusy(false)
			if onDone != nil {
				onDone(req, result, err)
			}
		}
	})
	return nil
}

func (c *Controller) evaluate(ctx context.Context, req models.EvaluationRequest) (result *models.EvaluationResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = apperrors.NewNetworkError("calculate", fmt.Errorf("panic: %v", r))
		}
	}()
	return c.client.Evaluate(ctx, req)
}

func (c *Controller) setBusy(busy bool) {
	c.busy = busy
	c.view.SetSubmitBusy(busy)
	if busy {
		metrics.SubmissionsInFlight.Inc()
	} else {
		metrics.SubmissionsInFlight.Dec()
	}
}

package dataclient

import (
	"context"
	"sync"

	apperrors "credit-console/internal/common/errors"
	"credit-console/internal/models"
)

// Fake is an in-memory DataClient. A nil payload with a nil error answers
// with a network error so unconfigured calls are visible.
type Fake struct {
	mu sync.Mutex

	Statistics    *models.Statistics
	StatisticsErr error
	Options       *models.OptionSet
	OptionsErr    error
	ChartData     *models.ChartData
	ChartDataErr  error
	Result        *models.EvaluationResult
	EvaluateErr   error

	// Gate, when set, holds Evaluate until a value is received or it is closed.
	Gate chan struct{}

	calls    map[string]int
	requests []models.EvaluationRequest
}

var _ DataClient = (*Fake)(nil)

func (f *Fake) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

// Calls returns how many times the named operation ran.
func (f *Fake) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

// Requests returns every evaluation request received, in order.
func (f *Fake) Requests() []models.EvaluationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EvaluationRequest(nil), f.requests...)
}

func (f *Fake) FetchStatistics(context.Context) (*models.Statistics, error) {
	f.record("FetchStatistics")
	f.mu.Lock()
	defer f.mu.Unlock()
	return answer(f.Statistics, f.StatisticsErr, "statistics")
}

func (f *Fake) FetchOptions(context.Context) (*models.OptionSet, error) {
	f.record("FetchOptions")
	f.mu.Lock()
	defer f.mu.Unlock()
	return answer(f.Options, f.OptionsErr, "get_options")
}

func (f *Fake) FetchChartData(context.Context) (*models.ChartData, error) {
	f.record("FetchChartData")
	f.mu.Lock()
	defer f.mu.Unlock()
	return answer(f.ChartData, f.ChartDataErr, "chart_data")
}

func (f *Fake) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	f.record("Evaluate")
	f.mu.Lock()
	f.requests = append(f.requests, req)
	gate := f.Gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, apperrors.NewNetworkError("calculate", ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return answer(f.Result, f.EvaluateErr, "calculate")
}

func answer[T any](v *T, err error, endpoint string) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperrors.NewNetworkError(endpoint, nil)
	}
	return v, nil
}

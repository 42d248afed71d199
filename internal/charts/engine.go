package charts

import (
	"context"
	"sync"
)

// Engine draws a built configuration under a stable name.
type Engine interface {
	Draw(ctx context.Context, name string, cfg Config) error
}

// RecordingEngine keeps the last configuration drawn under each name.
type RecordingEngine struct {
	mu     sync.Mutex
	drawn  map[string]Config
	order  []string
	FailOn map[string]error
}

func NewRecordingEngine() *RecordingEngine {
	return &RecordingEngine{drawn: make(map[string]Config)}
}

func (e *RecordingEngine) Draw(_ context.Context, name string, cfg Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err, ok := e.FailOn[name]; ok {
		return err
	}
	if _, seen := e.drawn[name]; !seen {
		e.order = append(e.order, name)
	}
	e.drawn[name] = cfg
	return nil
}

func (e *RecordingEngine) Get(name string) (Config, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg, ok := e.drawn[name]
	return cfg, ok
}

// Names returns chart names in first-drawn order.
func (e *RecordingEngine) Names() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.order...)
}

// MultiEngine draws on every engine and returns the first failure.
type MultiEngine []Engine

func (m MultiEngine) Draw(ctx context.Context, name string, cfg Config) error {
	var first error
	for _, e := range m {
		if err := e.Draw(ctx, name, cfg); err != nil && first == nil {
			first = err
		}
	}
	return first
}

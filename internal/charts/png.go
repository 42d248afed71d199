package charts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"credit-console/internal/common/format"
	"credit-console/internal/common/logger"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PNGEngine renders configurations with go-chart into <dir>/<name>.png.
type PNGEngine struct {
	dir    string
	width  int
	height int
	logger logger.Logger
}

func NewPNGEngine(dir string, width, height int, log logger.Logger) *PNGEngine {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 480
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &PNGEngine{dir: dir, width: width, height: height, logger: log}
}

// Path is where a chart with the given name is written.
func (e *PNGEngine) Path(name string) string {
	return filepath.Join(e.dir, name+".png")
}

// Draw writes the PNG. Empty configurations and all-zero proportions have
// nothing to draw and are skipped.
func (e *PNGEngine) Draw(ctx context.Context, name string, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cfg.Empty || len(cfg.Points) == 0 {
		e.logger.Debug("skipping empty chart", map[string]interface{}{"chart": name})
		return nil
	}

	png, err := e.Render(cfg)
	if err != nil {
		return err
	}
	if png == nil {
		e.logger.Debug("skipping chart without positive values", map[string]interface{}{"chart": name})
		return nil
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	if err := os.WriteFile(e.Path(name), png, 0o644); err != nil {
		return fmt.Errorf("write chart %s: %w", name, err)
	}

	e.logger.Info("chart written", map[string]interface{}{
		"chart": name,
		"path":  e.Path(name),
		"kind":  string(cfg.Kind),
	})
	return nil
}

// Render returns the PNG bytes for cfg, or nil when nothing can be drawn.
func (e *PNGEngine) Render(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch cfg.Kind {
	case KindBar:
		err = e.renderBar(cfg, &buf)
	case KindDoughnut, KindPie:
		values := sliceValues(cfg)
		if len(values) == 0 {
			return nil, nil
		}
		if cfg.Kind == KindPie {
			pie := chart.PieChart{
				Title:  cfg.Title,
				Width:  e.width,
				Height: e.height,
				Values: values,
			}
			err = pie.Render(chart.PNG, &buf)
		} else {
			donut := chart.DonutChart{
				Title:  cfg.Title,
				Width:  e.width,
				Height: e.height,
				Values: values,
			}
			err = donut.Render(chart.PNG, &buf)
		}
	default:
		return nil, fmt.Errorf("unknown chart kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", cfg.Kind, err)
	}
	return buf.Bytes(), nil
}

func (e *PNGEngine) renderBar(cfg Config, buf *bytes.Buffer) error {
	bars := make([]chart.Value, len(cfg.Points))
	for i, p := range cfg.Points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Value,
			Style: chart.Style{
				FillColor:   hexColor(p.Color).WithAlpha(160),
				StrokeColor: hexColor(p.Color),
				StrokeWidth: 2,
			},
		}
	}

	axisMax := cfg.AxisMax
	if axisMax <= cfg.AxisMin {
		axisMax = cfg.AxisMin + 1
	}

	bc := chart.BarChart{
		Title:      cfg.Title,
		Width:      e.width,
		Height:     e.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		BarWidth:   barWidth(e.width, len(bars)),
		YAxis: chart.YAxis{
			Name:  cfg.SeriesLabel,
			Range: &chart.ContinuousRange{Min: cfg.AxisMin, Max: axisMax},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return format.Number(f)
				}
				return fmt.Sprint(v)
			},
		},
		Bars: bars,
	}
	return bc.Render(chart.PNG, buf)
}

// sliceValues drops non-positive slices; go-chart cannot draw them.
func sliceValues(cfg Config) []chart.Value {
	var values []chart.Value
	for _, p := range cfg.Points {
		if p.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s%%)", p.Label, format.Percent(p.Percent)),
			Value: p.Value,
			Style: chart.Style{
				FillColor:   hexColor(p.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}
	return values
}

func barWidth(width, n int) int {
	if n == 0 {
		return 40
	}
	w := (width - 80) / (n * 2)
	if w < 8 {
		w = 8
	}
	if w > 80 {
		w = 80
	}
	return w
}

func hexColor(c string) drawing.Color {
	c = strings.TrimPrefix(c, "#")
	if c == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(c)
}

// Package charts turns aggregate datasets into chart configurations and hands
// them to a drawing engine.
package charts

import (
	"fmt"
	"math"
	"sort"

	"credit-console/internal/common/format"
	"credit-console/internal/models"
)

type Kind string

const (
	KindBar      Kind = "bar"
	KindDoughnut Kind = "doughnut"
	KindPie      Kind = "pie"
)

const EmptyMessage = "Data tidak tersedia"

// Point is one bar or slice.
type Point struct {
	Label     string  `json:"label"`
	FullLabel string  `json:"fullLabel"`
	Value     float64 `json:"value"`
	// Height is value/max for bars, in [0,1].
	Height float64 `json:"height,omitempty"`
	// Percent is the slice share rounded to one decimal.
	Percent float64 `json:"percent,omitempty"`
	Tooltip string  `json:"tooltip"`
	Color   string  `json:"color"`
}

// Config is everything an engine needs to draw a chart.
type Config struct {
	Kind         Kind    `json:"kind"`
	Title        string  `json:"title"`
	SeriesLabel  string  `json:"seriesLabel,omitempty"`
	Unit         string  `json:"unit"`
	Points       []Point `json:"points"`
	AxisMin      float64 `json:"axisMin"`
	AxisMax      float64 `json:"axisMax"`
	Empty        bool    `json:"empty"`
	EmptyMessage string  `json:"emptyMessage,omitempty"`
}

// Tooltips lists the tooltip text of every point.
func (c Config) Tooltips() []string {
	out := make([]string, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Tooltip
	}
	return out
}

type Options struct {
	Title          string
	Unit           string
	LabelMaxLength int
	Palette        []string
}

// DefaultBarPalette and friends carry the dashboard colours.
var (
	DefaultBarPalette      = []string{"#3b82f6"}
	DefaultDoughnutPalette = []string{"#3b82f6", "#10b981", "#f59e0b"}
	DefaultPiePalette      = []string{"#9333ea", "#ec4899"}
)

func (o Options) withDefaults(kind Kind) Options {
	if o.LabelMaxLength <= 0 {
		o.LabelMaxLength = 20
	}
	if len(o.Palette) == 0 {
		switch kind {
		case KindBar:
			o.Palette = DefaultBarPalette
		case KindDoughnut:
			o.Palette = DefaultDoughnutPalette
		default:
			o.Palette = DefaultPiePalette
		}
	}
	return o
}

func emptyConfig(kind Kind, opts Options) Config {
	return Config{
		Kind:         kind,
		Title:        opts.Title,
		Unit:         opts.Unit,
		Empty:        true,
		EmptyMessage: EmptyMessage,
	}
}

type pair struct {
	label string
	value float64
}

// BuildRanked sorts by value descending, keeps the first topN and scales bar
// heights against the largest value. Axis starts at zero.
func BuildRanked(ds models.AggregateDataset, topN int, opts Options) Config {
	opts = opts.withDefaults(KindBar)
	if ds.Len() == 0 || !ds.Aligned() || topN <= 0 {
		return emptyConfig(KindBar, opts)
	}

	pairs := make([]pair, ds.Len())
	for i, label := range ds.Labels {
		pairs[i] = pair{label: label, value: ds.Values[i]}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].value > pairs[j].value
	})
	if len(pairs) > topN {
		pairs = pairs[:topN]
	}

	maxValue := 0.0
	for _, p := range pairs {
		if p.value > maxValue {
			maxValue = p.value
		}
	}

	cfg := Config{
		Kind:        KindBar,
		Title:       opts.Title,
		SeriesLabel: seriesLabel(opts.Unit),
		Unit:        opts.Unit,
		AxisMin:     0,
		AxisMax:     maxValue,
		Points:      make([]Point, len(pairs)),
	}
	for i, p := range pairs {
		height := 0.0
		if maxValue > 0 && p.value > 0 {
			height = p.value / maxValue
		}
		cfg.Points[i] = Point{
			Label:     TruncateLabel(p.label, opts.LabelMaxLength),
			FullLabel: p.label,
			Value:     p.value,
			Height:    height,
			Tooltip:   "Kredit: " + format.WithUnit(p.value, opts.Unit),
			Color:     opts.Palette[i%len(opts.Palette)],
		}
	}
	return cfg
}

// BuildProportion builds a doughnut or pie whose tooltips show each slice's
// share of the total.
func BuildProportion(ds models.AggregateDataset, kind Kind, opts Options) Config {
	if kind != KindPie {
		kind = KindDoughnut
	}
	opts = opts.withDefaults(kind)
	if ds.Len() == 0 || !ds.Aligned() {
		return emptyConfig(kind, opts)
	}

	percents := Percentages(ds.Values)
	cfg := Config{
		Kind:   kind,
		Title:  opts.Title,
		Unit:   opts.Unit,
		Points: make([]Point, ds.Len()),
	}
	for i, label := range ds.Labels {
		v := ds.Values[i]
		cfg.Points[i] = Point{
			Label:     label,
			FullLabel: label,
			Value:     v,
			Percent:   percents[i],
			Tooltip:   fmt.Sprintf("%s: %s (%s%%)", label, format.WithUnit(v, opts.Unit), format.Percent(percents[i])),
			Color:     opts.Palette[i%len(opts.Palette)],
		}
	}
	return cfg
}

// Percentages returns each value's share of the total, rounded per slice to
// one decimal. The total is the plain sum of the values, negatives included;
// a total that is not positive gives zero everywhere.
func Percentages(values []float64) []float64 {
	out := make([]float64, len(values))
	total := 0.0
	for _, v := range values {
		total += v
	}
	if total <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = math.Round(v*1000/total) / 10
	}
	return out
}

// TruncateLabel cuts labels longer than max runes and appends "...".
func TruncateLabel(label string, max int) string {
	r := []rune(label)
	if max <= 0 || len(r) <= max {
		return label
	}
	return string(r[:max]) + "..."
}

func seriesLabel(unit string) string {
	if unit == "" {
		return "Jumlah Kredit"
	}
	return fmt.Sprintf("Jumlah Kredit (%s)", unit)
}

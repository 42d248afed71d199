// Package render maps an evaluation result onto the surface with the
// sequenced reveal the console uses.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"unicode"
	"unicode/utf8"

	"credit-console/internal/common/format"
	"credit-console/internal/models"
	"credit-console/internal/surface"
)

const (
	MinScore = 0
	MaxScore = 100

	// CategoryBackgroundAlpha is appended to the category colour for its background.
	CategoryBackgroundAlpha = "20"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Membership group titles.
const (
	TitleScale    = "Skala Usaha"
	TitleRisk     = "Tingkat Risiko"
	TitlePriority = "Prioritas Penggunaan"
	TitleOutput   = "Skor Persetujuan"
)

// PaneGroup is a membership group and the pane it belongs to.
type PaneGroup struct {
	Pane  surface.Pane
	Group surface.MembershipGroup
}

// View is everything a result shows, computed without side effects.
type View struct {
	Score           float64
	RawScore        float64
	ScoreClamped    bool
	Category        surface.Category
	Input           models.EvaluationRequest
	Figures         surface.AnalysisFigures
	Recommendations []string
	Visualization   surface.Visualization
	// VisualizationErr is set when an image was sent but could not be used.
	VisualizationErr error
	Groups           []PaneGroup
}

// BuildView derives the display model of result.
func BuildView(result *models.EvaluationResult) View {
	if result == nil {
		return View{Visualization: surface.Visualization{State: surface.VisualizationPlaceholder}}
	}

	score, clamped := ClampScore(result.Score)
	v := View{
		Score:           score,
		RawScore:        result.Score,
		ScoreClamped:    clamped,
		Category:        CategoryStyle(result.Category, result.CategoryColor),
		Input:           result.Input,
		Recommendations: append([]string(nil), result.Recommendations...),
		Figures: surface.AnalysisFigures{
			ScaleValue:         result.Analysis.ScaleValue,
			RiskValue:          result.Analysis.RiskValue,
			PriorityValue:      result.Analysis.PriorityValue,
			CreditRangeMillion: result.Analysis.CreditRangeMillion,
			FieldCreditBillion: result.Analysis.FieldCreditBillion,
			UsageCreditBillion: result.Analysis.UsageCreditBillion,
		},
	}

	v.Visualization, v.VisualizationErr = DecodeVisualization(result.Visualization)

	d := result.Analysis.Detailed
	v.Groups = []PaneGroup{
		{Pane: surface.PaneInput, Group: MembershipGroup(TitleScale, d.Scale)},
		{Pane: surface.PaneInput, Group: MembershipGroup(TitleRisk, d.Risk)},
		{Pane: surface.PaneInput, Group: MembershipGroup(TitlePriority, d.Priority)},
		{Pane: surface.PaneOutput, Group: MembershipGroup(TitleOutput, d.Output)},
	}
	return v
}

// ClampScore limits score to [0,100] and reports whether it had to.
func ClampScore(score float64) (float64, bool) {
	switch {
	case math.IsNaN(score):
		return MinScore, true
	case score < MinScore:
		return MinScore, true
	case score > MaxScore:
		return MaxScore, true
	}
	return score, false
}

// ScoreText is the text shown for one animation frame.
func ScoreText(v float64) string {
	return format.Integer(int64(math.Round(v)))
}

func CategoryStyle(text, color string) surface.Category {
	c := surface.Category{Text: text}
	if color != "" {
		c.Color = color
		c.Border = color
		c.Background = color + CategoryBackgroundAlpha
	}
	return c
}

// DecodeVisualization turns the base64 payload into an image. An empty
// payload is a placeholder without error.
func DecodeVisualization(payload string) (surface.Visualization, error) {
	placeholder := surface.Visualization{State: surface.VisualizationPlaceholder}
	if payload == "" {
		return placeholder, nil
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return placeholder, fmt.Errorf("decode visualization: %w", err)
	}
	if !bytes.HasPrefix(raw, pngSignature) {
		return placeholder, fmt.Errorf("visualization is not a PNG image")
	}
	return surface.Visualization{State: surface.VisualizationImage, PNG: raw}, nil
}

// MembershipGroup builds one group of bars, keeping the service's term order.
func MembershipGroup(title string, breakdown models.MembershipBreakdown) surface.MembershipGroup {
	g := surface.MembershipGroup{Title: title, Bars: make([]surface.MembershipBar, 0, len(breakdown))}
	for _, term := range breakdown {
		g.Bars = append(g.Bars, surface.MembershipBar{
			Label: Capitalize(term.Name),
			Value: format.Degree(term.Degree),
			Width: BarWidth(term.Degree),
		})
	}
	return g
}

// BarWidth is degree as a percentage clamped to [0,100].
func BarWidth(degree float64) float64 {
	w := degree * 100
	switch {
	case math.IsNaN(w) || w < 0:
		return 0
	case w > 100:
		return 100
	}
	return w
}

// Capitalize upper-cases the first rune and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

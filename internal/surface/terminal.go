package surface

import (
	"fmt"
	"strings"

	"credit-console/internal/charts"
	"credit-console/internal/models"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("#ef4444")).Padding(0, 1)
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("#10b981")).Padding(0, 1)
	infoStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("#3b82f6")).Padding(0, 1)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
)

var fieldLabels = map[models.Field]string{
	models.FieldBusinessField: "Lapangan Usaha",
	models.FieldScale:         "Skala Usaha",
	models.FieldUsageType:     "Jenis Penggunaan",
}

// Terminal renders documents and charts as styled text.
type Terminal struct {
	BarWidth int
}

func NewTerminal() *Terminal {
	return &Terminal{BarWidth: 30}
}

// Render draws the whole document.
func (t *Terminal) Render(doc Document) string {
	sections := []string{t.renderStats(doc), t.renderForm(doc)}
	if doc.ResultVisible {
		sections = append(sections, t.renderResult(doc))
	}
	if len(doc.Notifications) > 0 {
		sections = append(sections, t.renderNotifications(doc))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (t *Terminal) renderStats(doc Document) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		infoBox("Total Kredit", orDash(doc.Stats[StatTotalCredit]), lipgloss.Color("33")),
		infoBox("Lapangan Usaha", orDash(doc.Stats[StatBusinessFields]), lipgloss.Color("82")),
	)
}

func (t *Terminal) renderForm(doc Document) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Evaluasi Kredit") + "\n")
	for _, f := range models.AllFields {
		value := doc.Selections[f]
		if value == "" {
			value = mutedStyle.Render(fmt.Sprintf("(%d pilihan)", len(doc.Options[f])))
		}
		fmt.Fprintf(&b, "%-18s %s\n", fieldLabels[f], value)
	}
	switch {
	case doc.SubmitBusy:
		b.WriteString(mutedStyle.Render("Memproses..."))
	case !doc.FormInteractive:
		b.WriteString(mutedStyle.Render("Memuat opsi..."))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (t *Terminal) renderResult(doc Document) string {
	var b strings.Builder

	category := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	if doc.Category.Color != "" {
		category = category.
			Foreground(lipgloss.Color(doc.Category.Color)).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(doc.Category.Border))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("Skor "+doc.Score+" "),
		category.Render(doc.Category.Text),
	) + "\n")

	fmt.Fprintf(&b, "%s / %s / %s\n", doc.InputEcho.BusinessField, doc.InputEcho.Scale, doc.InputEcho.UsageType)
	f := doc.Figures
	fmt.Fprintf(&b, "Nilai skala %s, risiko %s, prioritas %s\n", f.ScaleValue, f.RiskValue, f.PriorityValue)
	fmt.Fprintf(&b, "Rentang kredit %s | Kredit lapangan usaha %s | Kredit penggunaan %s\n",
		f.CreditRangeMillion, f.FieldCreditBillion, f.UsageCreditBillion)

	b.WriteString(titleStyle.Render("Rekomendasi") + "\n")
	for i, item := range doc.Recommendations {
		if item.Visible {
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Text)
		}
	}

	switch doc.Visualization.State {
	case VisualizationImage:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("[visualisasi %d byte]", len(doc.Visualization.PNG))) + "\n")
	case VisualizationPlaceholder:
		b.WriteString(mutedStyle.Render("[visualisasi tidak tersedia]") + "\n")
	}

	for _, pane := range []Pane{PaneInput, PaneOutput} {
		marker := " "
		if doc.ActivePanes[string(pane)] {
			marker = "*"
		}
		for _, g := range doc.Membership[pane] {
			b.WriteString(marker + titleStyle.Render(g.Title) + "\n")
			for _, bar := range g.Bars {
				b.WriteString("  " + t.membershipBar(bar) + "\n")
			}
		}
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (t *Terminal) membershipBar(bar MembershipBar) string {
	width := 0.0
	if bar.Filled {
		width = bar.Width
	}
	filled := int(float64(t.BarWidth) * width / 100)
	if filled > t.BarWidth {
		filled = t.BarWidth
	}
	if filled < 0 {
		filled = 0
	}
	return fmt.Sprintf("%-12s %s%s %s",
		bar.Label,
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(strings.Repeat("█", filled)),
		emptyStyle.Render(strings.Repeat("░", t.BarWidth-filled)),
		bar.Value,
	)
}

func (t *Terminal) renderNotifications(doc Document) string {
	lines := make([]string, 0, len(doc.Notifications))
	for _, n := range doc.Notifications {
		style := infoStyle
		switch n.Kind {
		case NotificationError:
			style = errorStyle
		case NotificationSuccess:
			style = okStyle
		}
		lines = append(lines, style.Render(n.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderChart draws a chart configuration as horizontal bars.
func (t *Terminal) RenderChart(cfg charts.Config) string {
	var b strings.Builder
	if cfg.Title != "" {
		b.WriteString(titleStyle.Render(cfg.Title) + "\n")
	}
	if cfg.Empty {
		b.WriteString(mutedStyle.Render(cfg.EmptyMessage))
		return boxStyle.Render(b.String())
	}

	labelWidth := 0
	for _, p := range cfg.Points {
		if w := lipgloss.Width(p.Label); w > labelWidth {
			labelWidth = w
		}
	}

	for _, p := range cfg.Points {
		share := p.Height
		if cfg.Kind != charts.KindBar {
			share = p.Percent / 100
		}
		filled := int(float64(t.BarWidth) * share)
		if filled > t.BarWidth {
			filled = t.BarWidth
		}
		if filled < 0 {
			filled = 0
		}
		label := lipgloss.NewStyle().Width(labelWidth).Render(p.Label)
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render(strings.Repeat("█", filled))
		rest := emptyStyle.Render(strings.Repeat("░", t.BarWidth-filled))
		fmt.Fprintf(&b, "%s %s%s %s\n", label, bar, rest, mutedStyle.Render(p.Tooltip))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func infoBox(label, value string, color lipgloss.Color) string {
	labelStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("240")).
		Width(16).
		Align(lipgloss.Left)

	valueStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(color).
		Width(18).
		Align(lipgloss.Right)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value)))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Package surface is the rendering target of a session: everything the UI
// shows goes through the Surface interface.
package surface

import (
	"credit-console/internal/models"
)

type StatID string

const (
	StatTotalCredit    StatID = "total-credit"
	StatBusinessFields StatID = "total-fields"
)

type Pane string

const (
	PaneInput  Pane = "input"
	PaneOutput Pane = "output"
)

type NotificationKind string

const (
	NotificationError   NotificationKind = "error"
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
)

type Category struct {
	Text       string
	Color      string
	Background string
	Border     string
}

type AnalysisFigures struct {
	ScaleValue         string
	RiskValue          string
	PriorityValue      string
	CreditRangeMillion string
	FieldCreditBillion string
	UsageCreditBillion string
}

type VisualizationState int

const (
	VisualizationHidden VisualizationState = iota
	VisualizationImage
	VisualizationPlaceholder
)

type Visualization struct {
	State VisualizationState
	PNG   []byte
}

// MembershipBar is one term of a membership group. Filled flips once the
// bar has been grown to Width.
type MembershipBar struct {
	Label  string
	Value  string
	Width  float64 // percent, 0..100
	Filled bool
}

type MembershipGroup struct {
	Title string
	Bars  []MembershipBar
}

type Notification struct {
	ID      string
	Kind    NotificationKind
	Message string
	Leaving bool
}

// Surface is implemented by anything that can display the session.
// All methods are called from the event loop.
type Surface interface {
	SetStat(id StatID, text string)

	SetOptions(field models.Field, values []string)
	SetFormInteractive(interactive bool)
	SetSelection(field models.Field, value string)
	SetSubmitBusy(busy bool)

	SetResultVisible(visible bool)
	SetScore(text string)
	SetCategory(c Category)
	SetInputEcho(req models.EvaluationRequest)
	SetAnalysisFigures(f AnalysisFigures)
	SetRecommendations(items []string)
	RevealRecommendation(index int)
	SetVisualization(v Visualization)
	AddMembershipGroup(pane Pane, group MembershipGroup)
	FillMembershipBars(pane Pane, groupIndex int)
	ClearMembershipPanels()

	SetTabActive(tab string, active bool)
	SetPaneActive(pane string, active bool)

	AddNotification(n Notification)
	SetNotificationLeaving(id string)
	RemoveNotification(id string)
}

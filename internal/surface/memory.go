package surface

import (
	"sync"

	"credit-console/internal/models"
)

type RecommendationItem struct {
	Text    string
	Visible bool
}

// Document is a point-in-time copy of what a Memory surface shows.
type Document struct {
	Stats           map[StatID]string
	Options         map[models.Field][]string
	FormInteractive bool
	Selections      map[models.Field]string
	SubmitBusy      bool

	ResultVisible   bool
	Score           string
	Category        Category
	InputEcho       models.EvaluationRequest
	Figures         AnalysisFigures
	Recommendations []RecommendationItem
	Visualization   Visualization
	Membership      map[Pane][]MembershipGroup

	ActiveTabs    map[string]bool
	ActivePanes   map[string]bool
	Notifications []Notification
}

// Memory is an in-memory Surface. Besides the current document it keeps
// every score text shown and every notification raised.
type Memory struct {
	mu  sync.Mutex
	doc Document

	scoreHistory    []string
	notificationLog []Notification
}

var _ Surface = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{doc: Document{
		Stats:       make(map[StatID]string),
		Options:     make(map[models.Field][]string),
		Selections:  make(map[models.Field]string),
		Membership:  make(map[Pane][]MembershipGroup),
		ActiveTabs:  make(map[string]bool),
		ActivePanes: make(map[string]bool),
	}}
}

func (m *Memory) SetStat(id StatID, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Stats[id] = text
}

func (m *Memory) SetOptions(field models.Field, values []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Options[field] = append([]string(nil), values...)
}

func (m *Memory) SetFormInteractive(interactive bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.FormInteractive = interactive
}

func (m *Memory) SetSelection(field models.Field, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if value == "" {
		delete(m.doc.Selections, field)
		return
	}
	m.doc.Selections[field] = value
}

func (m *Memory) SetSubmitBusy(busy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.SubmitBusy = busy
}

func (m *Memory) SetResultVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.ResultVisible = visible
}

func (m *Memory) SetScore(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Score = text
	m.scoreHistory = append(m.scoreHistory, text)
}

func (m *Memory) SetCategory(c Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Category = c
}

func (m *Memory) SetInputEcho(req models.EvaluationRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.InputEcho = req
}

func (m *Memory) SetAnalysisFigures(f AnalysisFigures) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Figures = f
}

func (m *Memory) SetRecommendations(items []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Recommendations = make([]RecommendationItem, len(items))
	for i, text := range items {
		m.doc.Recommendations[i] = RecommendationItem{Text: text}
	}
}

func (m *Memory) RevealRecommendation(index int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if index >= 0 && index < len(m.doc.Recommendations) {
		m.doc.Recommendations[index].Visible = true
	}
}

func (m *Memory) SetVisualization(v Visualization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Visualization = v
}

func (m *Memory) AddMembershipGroup(pane Pane, group MembershipGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group.Bars = append([]MembershipBar(nil), group.Bars...)
	m.doc.Membership[pane] = append(m.doc.Membership[pane], group)
}

func (m *Memory) FillMembershipBars(pane Pane, groupIndex int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	groups := m.doc.Membership[pane]
	if groupIndex < 0 || groupIndex >= len(groups) {
		return
	}
	for i := range groups[groupIndex].Bars {
		groups[groupIndex].Bars[i].Filled = true
	}
}

func (m *Memory) ClearMembershipPanels() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Membership = make(map[Pane][]MembershipGroup)
}

func (m *Memory) SetTabActive(tab string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.ActiveTabs[tab] = active
}

func (m *Memory) SetPaneActive(pane string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.ActivePanes[pane] = active
}

func (m *Memory) AddNotification(n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc.Notifications = append(m.doc.Notifications, n)
	m.notificationLog = append(m.notificationLog, n)
}

func (m *Memory) SetNotificationLeaving(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.doc.Notifications {
		if m.doc.Notifications[i].ID == id {
			m.doc.Notifications[i].Leaving = true
		}
	}
}

func (m *Memory) RemoveNotification(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.doc.Notifications[:0]
	for _, n := range m.doc.Notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	m.doc.Notifications = kept
}

// ScoreHistory returns every score text set, in order.
func (m *Memory) ScoreHistory() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.scoreHistory...)
}

// NotificationLog returns every notification ever added.
func (m *Memory) NotificationLog() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.notificationLog...)
}

// Snapshot deep-copies the current document.
func (m *Memory) Snapshot() Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.doc
	d.Stats = make(map[StatID]string, len(m.doc.Stats))
	for k, v := range m.doc.Stats {
		d.Stats[k] = v
	}
	d.Options = make(map[models.Field][]string, len(m.doc.Options))
	for k, v := range m.doc.Options {
		d.Options[k] = append([]string(nil), v...)
	}
	d.Selections = make(map[models.Field]string, len(m.doc.Selections))
	for k, v := range m.doc.Selections {
		d.Selections[k] = v
	}
	d.Recommendations = append([]RecommendationItem(nil), m.doc.Recommendations...)
	d.Membership = make(map[Pane][]MembershipGroup, len(m.doc.Membership))
	for pane, groups := range m.doc.Membership {
		copied := make([]MembershipGroup, len(groups))
		for i, g := range groups {
			copied[i] = MembershipGroup{Title: g.Title, Bars: append([]MembershipBar(nil), g.Bars...)}
		}
		d.Membership[pane] = copied
	}
	d.ActiveTabs = make(map[string]bool, len(m.doc.ActiveTabs))
	for k, v := range m.doc.ActiveTabs {
		d.ActiveTabs[k] = v
	}
	d.ActivePanes = make(map[string]bool, len(m.doc.ActivePanes))
	for k, v := range m.doc.ActivePanes {
		d.ActivePanes[k] = v
	}
	d.Notifications = append([]Notification(nil), m.doc.Notifications...)
	d.Visualization.PNG = append([]byte(nil), m.doc.Visualization.PNG...)
	return d
}

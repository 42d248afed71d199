package surface

import (
	"strings"
	"testing"

	"credit-console/internal/charts"
	"credit-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SnapshotIsACopy(t *testing.T) {
	m := NewMemory()
	m.SetOptions(models.FieldScale, []string{"Mikro"})
	m.AddMembershipGroup(PaneInput, MembershipGroup{Title: "Skala Usaha", Bars: []MembershipBar{{Label: "Mikro", Width: 100}}})

	snap := m.Snapshot()
	snap.Options[models.FieldScale][0] = "changed"
	snap.Membership[PaneInput][0].Bars[0].Label = "changed"

	again := m.Snapshot()
	assert.Equal(t, "Mikro", again.Options[models.FieldScale][0])
	assert.Equal(t, "Mikro", again.Membership[PaneInput][0].Bars[0].Label)
}

func TestMemory_RecommendationsAndBars(t *testing.T) {
	m := NewMemory()
	m.SetRecommendations([]string{"a", "b"})
	m.RevealRecommendation(1)
	m.RevealRecommendation(5)

	m.AddMembershipGroup(PaneOutput, MembershipGroup{Title: "Skor Persetujuan", Bars: []MembershipBar{{Label: "Tinggi", Width: 80}}})
	m.FillMembershipBars(PaneOutput, 0)
	m.FillMembershipBars(PaneOutput, 3)

	doc := m.Snapshot()
	assert.Equal(t, []RecommendationItem{{Text: "a"}, {Text: "b", Visible: true}}, doc.Recommendations)
	assert.True(t, doc.Membership[PaneOutput][0].Bars[0].Filled)

	m.ClearMembershipPanels()
	assert.Empty(t, m.Snapshot().Membership)
}

func TestMemory_NotificationLifecycle(t *testing.T) {
	m := NewMemory()
	m.AddNotification(Notification{ID: "1", Kind: NotificationError, Message: "gagal"})
	m.AddNotification(Notification{ID: "2", Kind: NotificationInfo, Message: "info"})
	m.SetNotificationLeaving("1")

	doc := m.Snapshot()
	require.Len(t, doc.Notifications, 2)
	assert.True(t, doc.Notifications[0].Leaving)

	m.RemoveNotification("1")
	doc = m.Snapshot()
	require.Len(t, doc.Notifications, 1)
	assert.Equal(t, "2", doc.Notifications[0].ID)
	assert.Len(t, m.NotificationLog(), 2)
}

func TestMemory_ScoreHistoryAndSelections(t *testing.T) {
	m := NewMemory()
	m.SetScore("0")
	m.SetScore("41")
	m.SetSelection(models.FieldScale, "Mikro")
	m.SetSelection(models.FieldScale, "")

	assert.Equal(t, []string{"0", "41"}, m.ScoreHistory())
	assert.Empty(t, m.Snapshot().Selections)
}

func TestTerminal_Render(t *testing.T) {
	m := NewMemory()
	m.SetStat(StatTotalCredit, "1.234 Miliar")
	m.SetStat(StatBusinessFields, "17")
	m.SetResultVisible(true)
	m.SetScore("78")
	m.SetCategory(Category{Text: "Disetujui", Color: "#28a745", Background: "#28a74520", Border: "#28a745"})
	m.SetRecommendations([]string{"Pertahankan arus kas", "tersembunyi"})
	m.RevealRecommendation(0)
	m.AddMembershipGroup(PaneInput, MembershipGroup{Title: "Tingkat Risiko", Bars: []MembershipBar{{Label: "Rendah", Value: "0.700", Width: 70, Filled: true}}})
	m.AddNotification(Notification{ID: "x", Kind: NotificationError, Message: "Data tidak lengkap"})

	out := NewTerminal().Render(m.Snapshot())
	for _, want := range []string{"1.234 Miliar", "Disetujui", "78", "Pertahankan arus kas", "Tingkat Risiko", "0.700", "Data tidak lengkap"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "tersembunyi")
}

func TestTerminal_RenderChart(t *testing.T) {
	ds := models.AggregateDataset{Labels: []string{"A", "B", "C"}, Values: []float64{30, 50, 20}}
	term := NewTerminal()

	out := term.RenderChart(charts.BuildProportion(ds, charts.KindPie, charts.Options{Title: "Penggunaan", Unit: "Miliar"}))
	assert.Contains(t, out, "Penggunaan")
	assert.Contains(t, out, "B: 50 Miliar (50.0%)")

	empty := term.RenderChart(charts.BuildRanked(models.AggregateDataset{}, 10, charts.Options{}))
	assert.True(t, strings.Contains(empty, charts.EmptyMessage))
}

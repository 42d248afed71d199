package tabs

import (
	"testing"

	"credit-console/internal/surface"

	"github.com/stretchr/testify/assert"
)

func activeCount(m map[string]bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

func TestSwitchTo_ExactlyOneActive(t *testing.T) {
	mem := surface.NewMemory()
	c := NewDefault(mem)
	c.Reset()

	assert.True(t, c.SwitchTo(Output))
	doc := mem.Snapshot()
	assert.Equal(t, Output, c.Active())
	assert.Equal(t, 1, activeCount(doc.ActivePanes))
	assert.Equal(t, 1, activeCount(doc.ActiveTabs))
	assert.True(t, doc.ActivePanes[Output])
	assert.True(t, doc.ActiveTabs[Output])
}

func TestSwitchTo_UnknownIsNoop(t *testing.T) {
	mem := surface.NewMemory()
	c := NewDefault(mem)
	c.SwitchTo(Output)

	assert.False(t, c.SwitchTo("rules"))
	assert.Equal(t, Output, c.Active())
	assert.True(t, mem.Snapshot().ActivePanes[Output])
}

func TestSwitchTo_TabWithoutPaneIsNoop(t *testing.T) {
	mem := surface.NewMemory()
	c := New(mem, []string{Input, Output, "chart"}, []string{Input, Output})
	c.Reset()

	assert.False(t, c.SwitchTo("chart"))
	assert.Equal(t, Input, c.Active())
	assert.False(t, mem.Snapshot().ActiveTabs["chart"])
}

func TestReset_RestoresDefault(t *testing.T) {
	mem := surface.NewMemory()
	c := NewDefault(mem)
	c.SwitchTo(Output)
	c.Reset()

	doc := mem.Snapshot()
	assert.Equal(t, Input, c.Active())
	assert.True(t, doc.ActivePanes[Input])
	assert.False(t, doc.ActivePanes[Output])
}

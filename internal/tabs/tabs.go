// Package tabs switches between mutually exclusive detail panes.
package tabs

const (
	Input  = "input"
	Output = "output"
)

// View shows which tab and pane are active.
type View interface {
	SetTabActive(tab string, active bool)
	SetPaneActive(pane string, active bool)
}

// Controller keeps exactly one tab and its pane active.
type Controller struct {
	view   View
	tabs   []string
	panes  map[string]bool
	def    string
	active string
}

// New registers tabs in display order. Only tabs listed in panes can be
// activated. The first tab is the default.
func New(view View, tabs []string, panes []string) *Controller {
	c := &Controller{
		view:  view,
		tabs:  append([]string(nil), tabs...),
		panes: make(map[string]bool, len(panes)),
	}
	for _, p := range panes {
		c.panes[p] = true
	}
	if len(tabs) > 0 {
		c.def = tabs[0]
	}
	return c
}

// NewDefault builds the input/output controller.
func NewDefault(view View) *Controller {
	return New(view, []string{Input, Output}, []string{Input, Output})
}

func (c *Controller) Active() string {
	return c.active
}

// SwitchTo activates tab. Unknown tabs and tabs without a pane are ignored.
// It reports whether the switch happened.
func (c *Controller) SwitchTo(tab string) bool {
	if !c.known(tab) || !c.panes[tab] {
		return false
	}
	for _, t := range c.tabs {
		c.view.SetTabActive(t, false)
		if c.panes[t] {
			c.view.SetPaneActive(t, false)
		}
	}
	c.view.SetTabActive(tab, true)
	c.view.SetPaneActive(tab, true)
	c.active = tab
	return true
}

// Reset returns to the default tab.
func (c *Controller) Reset() {
	c.SwitchTo(c.def)
}

func (c *Controller) known(tab string) bool {
	for _, t := range c.tabs {
		if t == tab {
			return true
		}
	}
	return false
}

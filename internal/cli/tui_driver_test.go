package cli

import (
	"context"
	"testing"

	"github.com/alexanderramin/clarity/internal/teatest"
	tea "github.com/charmbracelet/bubbletea"
)

// TestDriver wraps teatest.Driver with access to the appModel's view stack
// and shared state.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel with first on top, sizes the terminal
// and drains Init. Stage transitions commit immediately. setup runs on the
// shared state before first is built.
func NewTestDriver(t *testing.T, app *App, first func(*SharedState) View, setup ...func(*SharedState)) *TestDriver {
	t.Helper()

	m := newAppModel(context.Background(), app, func(s *SharedState) View {
		s.TransitionDelay = 0
		for _, fn := range setup {
			fn(s)
		}
		return first(s)
	})
	d := teatest.New(t, m, teatest.WithSize(100, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() *appModel {
	m := d.Model.(appModel)
	return &m
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

func (d *TestDriver) ActiveView() View {
	return d.appModel().activeView()
}

func (d *TestDriver) StackDepth() int {
	return len(d.appModel().viewStack)
}

func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Notice returns the current flash line.
func (d *TestDriver) Notice() string {
	return d.appModel().notice
}

func (d *TestDriver) PressCtrlN() {
	d.T.Helper()
	d.PressKeyType(tea.KeyCtrlN)
}

// Answer fills the focused question's fields in order and presses Enter.
func (d *TestDriver) Answer(answers ...string) {
	d.T.Helper()
	for i, a := range answers {
		if i > 0 {
			d.PressTab()
		}
		d.Type(a)
	}
	d.PressEnter()
}

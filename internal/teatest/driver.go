// Package teatest drives bubbletea models synchronously in tests.
//
// Instead of a tea.Program, the Driver calls Update directly and runs each
// returned Cmd to completion, feeding its message back in. Cmds that wait
// on timers (cursor blinks, spinner frames, tea.Tick) do not return within
// the Driver's timeout and are dropped, so a test only ever sees the
// messages produced by real work such as service calls.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth bounds how many chained Cmds a single Send may run.
const MaxDrainDepth = 100

// DefaultCmdTimeout separates work Cmds from timer Cmds. SQLite-backed
// service calls finish in a few milliseconds; the fastest timer in use,
// the spinner frame, waits about 80ms.
const DefaultCmdTimeout = 50 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set once tea.Quit has been returned by the model.
	Quitting bool

	timeout time.Duration
	dropped int
}

// New creates a Driver for model. Call DrainInit to run the model's Init.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, timeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg before anything else.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides DefaultCmdTimeout.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// DrainInit runs the model's Init Cmd and everything it leads to.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches msg through Update and drains the resulting Cmds.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, 0)
}

// Dropped reports how many Cmds timed out so far.
func (d *Driver) Dropped() int { return d.dropped }

// ── keys ─────────────────────────────────────────────────────────────────────

// PressKey sends a single rune.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// PressKeyType sends a special key such as tea.KeyTab or tea.KeyCtrlN.
func (d *Driver) PressKeyType(t tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: t})
}

func (d *Driver) PressEnter() { d.T.Helper(); d.PressKeyType(tea.KeyEnter) }
func (d *Driver) PressEsc()   { d.T.Helper(); d.PressKeyType(tea.KeyEsc) }
func (d *Driver) PressCtrlC() { d.T.Helper(); d.PressKeyType(tea.KeyCtrlC) }
func (d *Driver) PressUp()    { d.T.Helper(); d.PressKeyType(tea.KeyUp) }
func (d *Driver) PressDown()  { d.T.Helper(); d.PressKeyType(tea.KeyDown) }
func (d *Driver) PressTab()   { d.T.Helper(); d.PressKeyType(tea.KeyTab) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View returns the model's current rendering.
func (d *Driver) View() string {
	return d.Model.View()
}

// ── draining ─────────────────────────────────────────────────────────────────

func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg, ok := d.run(cmd)
	if !ok {
		d.dropped++
		return
	}
	if msg == nil || isTimerMsg(msg) {
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, sub := range batch {
			d.drainCmd(sub, depth+1)
		}
		return
	}

	if _, quit := msg.(tea.QuitMsg); quit {
		d.Quitting = true
		return
	}

	updated, next := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(next, depth+1)
}

// run executes cmd, giving up after the driver's timeout.
func (d *Driver) run(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(d.timeout):
		return nil, false
	}
}

// isTimerMsg matches blink and spinner frame messages that returned
// immediately but would chain into blocking timers.
func isTimerMsg(msg tea.Msg) bool {
	t := strings.ToLower(fmt.Sprintf("%T", msg))
	return strings.Contains(t, "blink") || strings.HasSuffix(t, "spinner.tickmsg")
}

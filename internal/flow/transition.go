package flow

import "time"

// TransitionDelay is how long a stage change is held before it commits.
const TransitionDelay = 300 * time.Millisecond

// Transition defers a state change: Begin records the mutation and starts
// animating, Commit applies it. While animating, further Begins are
// rejected, so the rendered stage never runs ahead of its content.
type Transition struct {
	animating bool
	pending   func()
}

// Begin records apply and reports whether the caller should schedule a
// Commit. It returns false while a transition is already in flight.
func (t *Transition) Begin(apply func()) bool {
	if t.animating {
		return false
	}
	t.animating = true
	t.pending = apply
	return true
}

// Commit applies the pending change and ends the animation. It reports
// whether anything was applied.
func (t *Transition) Commit() bool {
	if !t.animating {
		return false
	}
	apply := t.pending
	t.pending = nil
	t.animating = false
	if apply != nil {
		apply()
	}
	return true
}

func (t *Transition) Animating() bool { return t.animating }

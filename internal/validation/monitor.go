package validation

import "time"

// Monitor tracks how long the current verdict has held. A verdict counts as
// stable once it has been Valid for at least the settle duration.
//
// Monitor is not safe for concurrent use; the controller drives it from the
// frame loop.
type Monitor struct {
	settle  time.Duration
	current Verdict
	seen    bool
	held    time.Duration
}

// NewMonitor creates a monitor with the given settle duration.
func NewMonitor(settle time.Duration) *Monitor {
	return &Monitor{settle: settle}
}

// Observe records a new verdict. A change of state, or any state other than
// Valid, restarts the settle timer.
func (m *Monitor) Observe(v Verdict) {
	if !m.seen || v.State != m.current.State || v.State != Valid {
		m.held = 0
	}
	m.current = v
	m.seen = true
}

// Touch restarts the settle timer without changing the verdict. The
// controller calls it whenever anchors move, so a belt being dragged through
// Valid positions never counts as settled.
func (m *Monitor) Touch() {
	m.held = 0
}

// Advance accumulates elapsed time while the last verdict is Valid.
func (m *Monitor) Advance(dt time.Duration) {
	if !m.seen || m.current.State != Valid || dt <= 0 {
		return
	}
	m.held += dt
}

// Stable reports whether the last verdict is Valid and has held for the
// settle duration.
func (m *Monitor) Stable() bool {
	return m.seen && m.current.State == Valid && m.held >= m.settle
}

// Current returns the last observed verdict.
func (m *Monitor) Current() Verdict {
	return m.current
}

// State returns the state of the last observed verdict, Valid before any.
func (m *Monitor) State() State {
	return m.current.State
}

// Held returns how long the current Valid verdict has held.
func (m *Monitor) Held() time.Duration {
	return m.held
}

// Reset forgets the observed verdict.
func (m *Monitor) Reset() {
	*m = Monitor{settle: m.settle}
}

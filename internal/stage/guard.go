package stage

import "time"

// SnapGuard is a timed lock that releases itself once its deadline passes.
// There is never more than one pending release: Acquire replaces the
// previous deadline.
type SnapGuard struct {
	clock    Clock
	deadline time.Time
	held     bool
	arms     int
}

// NewSnapGuard returns a released guard.
func NewSnapGuard(clock Clock) *SnapGuard {
	return &SnapGuard{clock: clock}
}

// Acquire holds the guard for d, cancelling any pending release.
func (g *SnapGuard) Acquire(d time.Duration) {
	g.held = true
	g.deadline = g.clock.Now().Add(d)
	g.arms++
}

// Held reports whether the guard is still held, clearing it when the deadline has passed.
func (g *SnapGuard) Held() bool {
	if g.held && !g.clock.Now().Before(g.deadline) {
		g.held = false
	}
	return g.held
}

// Release drops the guard and its pending release.
func (g *SnapGuard) Release() {
	g.held = false
	g.deadline = time.Time{}
}

// Deadline is the pending release time, zero when released.
func (g *SnapGuard) Deadline() time.Time {
	if !g.Held() {
		return time.Time{}
	}
	return g.deadline
}

// Arms counts how many times the guard has been acquired.
func (g *SnapGuard) Arms() int { return g.arms }

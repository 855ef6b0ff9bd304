// Package clock provides a swappable source of the current time, in whole
// seconds since the epoch, so that expiry and time-window behavior can be
// driven deterministically from tests.
package clock

import (
	"time"
)

var active Clock = real{}

// Clock is anything that can report the current time as seconds since the
// epoch. The deals engine never calls time.Now() directly; every page,
// table and filter goes through Now() so tests can fast-forward time.
type Clock interface {
	Now() uint32
}

type real struct{}

func (real) Now() uint32 {
	return uint32(time.Now().Unix())
}

// Test is a manually-advanced clock used by tests that need to simulate
// page expiry and "max_lifetime_sec" windows without sleeping.
type Test struct {
	ts uint32
}

func (c *Test) Now() uint32 {
	return c.ts
}

// Now returns the current time from the active clock.
func Now() uint32 {
	return active.Now()
}

// UseRealClock switches back to the wall clock. Tests should defer this
// after calling UseTestClock so later tests aren't left on frozen time.
func UseRealClock() {
	active = real{}
}

// UseTestClock installs a Test clock pinned at ts and returns it so the
// caller can Advance it further.
func UseTestClock(ts uint32) *Test {
	t := &Test{ts: ts}
	active = t
	return t
}

// Advance moves t forward by seconds. The package-level Now only sees
// the change while t is the currently active clock.
func (c *Test) Advance(seconds uint32) {
	c.ts += seconds
}

// Goto pins t at an absolute timestamp.
func (c *Test) Goto(ts uint32) {
	c.ts = ts
}

package clock

import "time"

// FakeClock is a Clock pinned to a fixed instant, moved explicitly with
// Advance. Expiry-sweep and lifecycle-date tests drive it directly.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

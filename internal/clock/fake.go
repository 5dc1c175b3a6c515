package clock

import "time"

// FakeClock pins Now to a fixed instant so tests can place orders and
// settlement periods on known weekdays. All times are normalized to UTC,
// matching how period boundaries are stored.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward, e.g. past a period's Friday boundary.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

package models

import (
	"time"
)

// Clock is the simulation's only notion of time. Every tick advances the
// counter by one and the simulated wall clock by a fixed step.
type Clock struct {
	Tick        uint64
	CurrentTime time.Time
	EndTime     time.Time
}

func (c *Clock) Add(timeToAdd time.Duration) {
	c.Tick++
	c.CurrentTime = c.CurrentTime.Add(timeToAdd)
}

// IsExpired reports whether the clock passed its end time. A zero end time
// never expires.
func (c *Clock) IsExpired() bool {
	if c.EndTime.IsZero() {
		return false
	}

	return c.CurrentTime.Equal(c.EndTime) || c.CurrentTime.After(c.EndTime)
}

func NewClock(startTime time.Time, endTime time.Time) *Clock {
	return &Clock{
		CurrentTime: startTime,
		EndTime:     endTime,
	}
}

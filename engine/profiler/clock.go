package profiler

import "time"

// Clock measures per-frame delta time and total elapsed time for the frame loop.
// The first Tick after construction reports the time since construction.
type Clock struct {
	now    func() time.Time
	start  time.Time
	last   time.Time
	frames uint64

	// maxDelta caps a single frame delta so a stall (window drag, breakpoint) does not teleport the camera
	maxDelta time.Duration
}

// ClockOption is a functional option for configuring a Clock.
type ClockOption func(*Clock)

// WithTimeSource replaces time.Now as the clock's source of time.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - ClockOption: option function to apply
func WithTimeSource(now func() time.Time) ClockOption {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxDelta caps the delta reported by a single Tick. Zero disables the cap.
//
// Parameters:
//   - d: the largest delta a Tick may report
//
// Returns:
//   - ClockOption: option function to apply
func WithMaxDelta(d time.Duration) ClockOption {
	return func(c *Clock) {
		c.maxDelta = max(d, 0)
	}
}

// NewClock creates a Clock started at the current time.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - *Clock: the started clock
func NewClock(options ...ClockOption) *Clock {
	c := &Clock{
		now:      time.Now,
		maxDelta: 250 * time.Millisecond,
	}
	for _, option := range options {
		option(c)
	}
	c.start = c.now()
	c.last = c.start
	return c
}

// Tick advances the clock by one frame.
//
// Returns:
//   - float32: seconds since the previous Tick
func (c *Clock) Tick() float32 {
	current := c.now()
	delta := current.Sub(c.last)
	c.last = current
	c.frames++
	if c.maxDelta > 0 && delta > c.maxDelta {
		delta = c.maxDelta
	}
	return float32(delta.Seconds())
}

// Elapsed returns the seconds between construction and the most recent Tick.
func (c *Clock) Elapsed() float32 {
	return float32(c.last.Sub(c.start).Seconds())
}

// Frames returns the number of Ticks so far.
func (c *Clock) Frames() uint64 {
	return c.frames
}

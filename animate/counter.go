package animate

import (
	"math"
	"time"

	"github.com/benbjohnson/clock"
)

// A Counter animates a displayed number towards a target over a fixed duration.
//
// The displayed value is a pure function of the sample time and the last
// observed target: floor(start + easing(progress) * (target - start)), where
// progress is the elapsed fraction of the duration clamped to [0, 1]. Observing
// a new target while an animation is running redirects from whatever value is
// displayed at that moment, so the display never jumps.
//
// A Counter is owned by a single goroutine.
type Counter struct {
	clock    clock.Clock
	easing   Easing
	duration time.Duration

	start     float64
	target    float64
	current   float64
	startTime time.Time
}

// CounterOption configures a Counter.
type CounterOption func(*Counter)

// WithClock sets the clock used by Observe.
func WithClock(clk clock.Clock) CounterOption {
	return func(c *Counter) {
		c.clock = clk
	}
}

// WithEasing sets the easing applied to progress. Nil keeps Linear.
func WithEasing(e Easing) CounterOption {
	return func(c *Counter) {
		if e != nil {
			c.easing = e
		}
	}
}

// NewCounter creates a Counter that displays initial and is at rest.
func NewCounter(initial float64, duration time.Duration, opts ...CounterOption) *Counter {
	c := new(Counter)
	c.clock = clock.New()
	c.easing = Linear
	c.duration = duration
	for _, opt := range opts {
		opt(c)
	}

	initial = math.Floor(initial)
	c.start = initial
	c.target = initial
	c.current = initial
	c.startTime = c.clock.Now()

	return c
}

// Observe sets a new target at the current clock time.
func (c *Counter) Observe(target float64) {
	c.ObserveAt(target, c.clock.Now())
}

// ObserveAt sets a new target as seen at now. Observing the current target again
// is a no-op, whether or not the running animation has completed.
func (c *Counter) ObserveAt(target float64, now time.Time) {
	if target == c.target {
		return
	}

	c.current = c.valueAt(now)
	c.start = c.current
	c.target = target
	c.startTime = now
}

// Sample returns the value to display at now.
func (c *Counter) Sample(now time.Time) float64 {
	c.current = c.valueAt(now)
	return c.current
}

// Progress returns the elapsed fraction of the running animation at now.
func (c *Counter) Progress(now time.Time) float64 {
	if c.duration <= 0 {
		return 1
	}

	p := float64(now.Sub(c.startTime)) / float64(c.duration)
	return math.Max(0, math.Min(p, 1))
}

// Done reports whether the animation has reached its target at now. A Counter
// that is done does not need sampling until the next observed target.
func (c *Counter) Done(now time.Time) bool {
	return c.Progress(now) >= 1
}

// Target returns the last observed target.
func (c *Counter) Target() float64 {
	return c.target
}

// Start returns the value the running animation started from.
func (c *Counter) Start() float64 {
	return c.start
}

// Value returns the most recently computed display value.
func (c *Counter) Value() float64 {
	return c.current
}

func (c *Counter) valueAt(now time.Time) float64 {
	p := c.Progress(now)
	if p >= 1 {
		return math.Floor(c.target)
	}

	return math.Floor(c.start + c.easing(p)*(c.target-c.start))
}

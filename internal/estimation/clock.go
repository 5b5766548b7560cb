package estimation

import "time"

// Clock supplies the current time for age calculation
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// YearClock returns a FixedClock set to the start of the given year (UTC)
func YearClock(year int) FixedClock {
	return FixedClock{T: time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC)}
}

// Estimator evaluates estimates against an injected clock
type Estimator struct {
	clock Clock
}

// NewEstimator creates an estimator. A nil clock means the system clock.
func NewEstimator(clock Clock) *Estimator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Estimator{clock: clock}
}

// Estimate reads the clock once and evaluates the formula for that year
func (e *Estimator) Estimate(in Input) Result {
	return Calculate(in, e.CurrentYear())
}

// CurrentYear returns the calendar year (UTC) according to the estimator's clock
func (e *Estimator) CurrentYear() int {
	return e.clock.Now().UTC().Year()
}

package clock

import "time"

// Clock supplies the current time. Deadline and recency calculations take a
// Clock instead of calling time.Now directly so tests can pin "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// New returns a Clock backed by the system time.
func New() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock frozen at a single instant, for tests.
type Fixed struct {
	T time.Time
}

// NewFixed returns a Clock that always reports t.
func NewFixed(t time.Time) Fixed {
	return Fixed{T: t}
}

func (f Fixed) Now() time.Time {
	return f.T
}

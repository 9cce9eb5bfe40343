package engine

import "time"

// Clock supplies "now" so expiry sweeps and check-ins are deterministic in
// tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// SystemClock returns a clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

func (f *FixedClock) Now() time.Time {
	return f.Time.UTC()
}

// Set moves the fixed clock to t.
func (f *FixedClock) Set(t time.Time) {
	f.Time = t
}

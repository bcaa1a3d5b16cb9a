package clock

import "time"

// Clock abstracts time so progress and persistence stay deterministic in tests.
type Clock interface {
	Now() time.Time
}

// System reads the local wall clock.
type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time {
	return f.T
}

// Manual is a settable clock for tests that step through a day.
type Manual struct {
	T time.Time
}

func (m *Manual) Now() time.Time {
	return m.T
}

func (m *Manual) Set(t time.Time) {
	m.T = t
}

func (m *Manual) Advance(d time.Duration) {
	m.T = m.T.Add(d)
}

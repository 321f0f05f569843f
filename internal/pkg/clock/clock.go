package clock

import "time"

// Clock abstracts the current time so tolerance windows and expiry checks are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in UTC.
type System struct{}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Advance moves it forward.
type Fixed struct {
	Current time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{Current: t.UTC()}
}

func (f *Fixed) Now() time.Time {
	return f.Current
}

func (f *Fixed) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}

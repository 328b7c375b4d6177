package utils

import "time"

// Clock supplies the as-of date for forecasts and default payment dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location, or in the local zone when Location is nil.
type SystemClock struct {
	Location *time.Location
}

func (s SystemClock) Now() time.Time {
	if s.Location != nil {
		return time.Now().In(s.Location)
	}
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Today returns midnight of the current day in the clock's location.
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

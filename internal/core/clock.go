package core

import "time"

// Clock abstracts the current time for expiry checks and query windows
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time
type RealClock struct{}

// Now returns the current time
func (RealClock) Now() time.Time {
	return time.Now()
}

// MockClock implements Clock for testing
type MockClock struct {
	CurrentTime time.Time
}

// Now returns the mocked current time
func (m *MockClock) Now() time.Time {
	return m.CurrentTime
}

// Advance moves the mocked time forward by the given duration
func (m *MockClock) Advance(d time.Duration) {
	m.CurrentTime = m.CurrentTime.Add(d)
}

// Set sets the mocked current time to a specific value
func (m *MockClock) Set(t time.Time) {
	m.CurrentTime = t
}

var (
	_ Clock = RealClock{}
	_ Clock = (*MockClock)(nil)
)

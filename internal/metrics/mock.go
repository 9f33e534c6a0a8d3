package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	playersRegistered int
	playersRemoved    int
	bookingsCreated   int
	bookingsCancelled int
	loginFailures     int
	advisorRequests   int
	advisorFailures   int
	advisorDurations  []float64
	slackNotifSent    int
	slackNotifFailed  int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		advisorDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPlayersRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRegistered++
}

func (m *Mock) IncPlayersRemoved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRemoved++
}

func (m *Mock) IncBookingsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingsCreated++
}

func (m *Mock) IncBookingsCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookingsCancelled++
}

func (m *Mock) IncLoginFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loginFailures++
}

func (m *Mock) IncAdvisorRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisorRequests++
}

func (m *Mock) IncAdvisorFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisorFailures++
}

func (m *Mock) ObserveAdvisorDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advisorDurations = append(m.advisorDurations, duration)
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PlayersRegistered returns the number of times IncPlayersRegistered was called.
func (m *Mock) PlayersRegistered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRegistered
}

// PlayersRemoved returns the number of times IncPlayersRemoved was called.
func (m *Mock) PlayersRemoved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRemoved
}

// BookingsCreated returns the number of times IncBookingsCreated was called.
func (m *Mock) BookingsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingsCreated
}

// BookingsCancelled returns the number of times IncBookingsCancelled was called.
func (m *Mock) BookingsCancelled() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookingsCancelled
}

// LoginFailures returns the number of times IncLoginFailures was called.
func (m *Mock) LoginFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginFailures
}

// AdvisorRequests returns the number of times IncAdvisorRequests was called.
func (m *Mock) AdvisorRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advisorRequests
}

// AdvisorFailures returns the number of times IncAdvisorFailures was called.
func (m *Mock) AdvisorFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advisorFailures
}

// AdvisorDurations returns a copy of the observed advisor durations.
func (m *Mock) AdvisorDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.advisorDurations...)
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

package services

import "time"

// Clock supplies the current time; tests pin it to exercise the view
// dedup window and submission timestamps.
type Clock func() time.Time

// RealClock is the production clock.
func RealClock() time.Time { return time.Now().UTC() }

// WithClock overrides the service clock. Test hook.
func (s *IntakeService) WithClock(c Clock) *IntakeService { s.now = c; return s }

// WithClock overrides the service clock. Test hook.
func (s *ReviewService) WithClock(c Clock) *ReviewService { s.now = c; return s }

// WithClock overrides the service clock. Test hook.
func (s *ViewTrackingService) WithClock(c Clock) *ViewTrackingService { s.now = c; return s }

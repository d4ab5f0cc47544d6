// Package timesvc supplies the engine's clock. Keeping it behind a
// service makes expiry deterministic in tests.
package timesvc

import "time"

type Svc struct{}

func New() *Svc {
	return &Svc{}
}

// GetTimeNow returns the current UTC time.
func (s *Svc) GetTimeNow() time.Time {
	return time.Now().UTC()
}

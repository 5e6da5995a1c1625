package seeder

import (
	"fmt"
	"sync"
	"time"
)

// Serial generates run-unique suffixes for seeded emails and phone numbers.
// Each value is the millisecond timestamp followed by a zero-padded
// three-digit counter, so a tight loop of up to a thousand calls per
// millisecond still yields distinct values.
//
// A Serial is owned by one Seeder and injected where needed; there is no
// package-level instance, which keeps test runs isolated.
type Serial struct {
	mu      sync.Mutex
	counter int
	now     func() time.Time
}

// NewSerial returns a generator backed by the wall clock.
func NewSerial() *Serial {
	return &Serial{now: time.Now}
}

// Next returns the next serial value.
func (s *Serial) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.counter % 1000
	s.counter++
	return fmt.Sprintf("%d%03d", s.now().UnixMilli(), n)
}

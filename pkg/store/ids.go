package store

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDSource issues process-unique string tokens for forms and fields.
type IDSource interface {
	NextID() string
}

// idObserver is implemented by sources that must stay ahead of ids loaded
// from persisted state.
type idObserver interface {
	Observe(id string)
}

// TimeIDSource issues millisecond timestamps. Ids are strictly increasing for
// the lifetime of the source, even when several are requested within the same
// millisecond or the clock steps backwards.
type TimeIDSource struct {
	mu    sync.Mutex
	last  int64
	clock func() time.Time
}

// NewTimeIDSource returns a TimeIDSource using clock, or time.Now when nil.
func NewTimeIDSource(clock func() time.Time) *TimeIDSource {
	if clock == nil {
		clock = time.Now
	}
	return &TimeIDSource{clock: clock}
}

// NextID returns the next timestamp-derived id.
func (s *TimeIDSource) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock().UnixMilli()
	if now <= s.last {
		now = s.last + 1
	}
	s.last = now
	return strconv.FormatInt(now, 10)
}

// Observe raises the floor so ids issued later never collide with id.
func (s *TimeIDSource) Observe(id string) {
	value, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if value > s.last {
		s.last = value
	}
}

// UUIDSource issues random (v4) UUID strings.
type UUIDSource struct{}

// NextID returns a new UUID.
func (UUIDSource) NextID() string {
	return uuid.NewString()
}

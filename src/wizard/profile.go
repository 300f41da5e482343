package wizard

import (
	"context"
	"sync"

	"travl/src/types"
)

// ProfileRecorder keeps a copy of confirmed bookings on the traveler's profile.
type ProfileRecorder interface {
	AppendBooking(ctx context.Context, userID string, b types.ProfileBooking) error
}

type MemoryProfileStore struct {
	mu       sync.Mutex
	bookings map[string][]types.ProfileBooking
}

func NewMemoryProfileStore() *MemoryProfileStore {
	return &MemoryProfileStore{bookings: make(map[string][]types.ProfileBooking)}
}

func (s *MemoryProfileStore) AppendBooking(ctx context.Context, userID string, b types.ProfileBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[userID] = append(s.bookings[userID], b)
	return nil
}

func (s *MemoryProfileStore) ListBookings(ctx context.Context, userID string) ([]types.ProfileBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.ProfileBooking, len(s.bookings[userID]))
	copy(out, s.bookings[userID])
	return out, nil
}

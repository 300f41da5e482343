package repository

import (
	"context"
	"sync"
	"time"

	"travl/src/models"
	"travl/src/types"
)

// MemoryBookingRepository keeps bookings in insertion order for the life of the process.
type MemoryBookingRepository struct {
	mu       sync.RWMutex
	bookings []*models.Booking
	byID     map[string]int
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{byID: make(map[string]int)}
}

func (r *MemoryBookingRepository) Create(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID]; ok {
		return ErrDuplicate
	}
	for i := range b.Guests {
		b.Guests[i].BookingID = b.ID
		b.Guests[i].Position = i
	}
	r.byID[b.ID] = len(r.bookings)
	r.bookings = append(r.bookings, b.Clone())
	return nil
}

func (r *MemoryBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.bookings[i].Clone(), nil
}

func (r *MemoryBookingRepository) GetByGuestEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.HasGuest(email) }), nil
}

func (r *MemoryBookingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	if transactionID == "" {
		return nil, ErrNotFound
	}
	found := r.filter(func(b *models.Booking) bool { return b.TransactionID == transactionID })
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

func (r *MemoryBookingRepository) UpdateStatus(ctx context.Context, id string, status types.BookingStatus, at time.Time) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	b := r.bookings[i]
	b.Status = status
	b.UpdatedAt = at
	return b.Clone(), nil
}

func (r *MemoryBookingRepository) ListCheckingInOn(ctx context.Context, date string) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool {
		return b.Checkin == date && b.Status == types.BOOKING_CONFIRMED
	}), nil
}

func (r *MemoryBookingRepository) filter(match func(b *models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Booking, 0)
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, *b.Clone())
		}
	}
	return out
}

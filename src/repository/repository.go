// Package repository stores booking records.
package repository

import (
	"context"
	"errors"
	"time"

	"travl/src/models"
	"travl/src/types"
)

var (
	ErrNotFound  = errors.New("booking not found")
	ErrDuplicate = errors.New("booking id already exists")
)

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// GetByGuestEmail returns bookings with any guest whose email matches exactly, oldest first.
	GetByGuestEmail(ctx context.Context, email string) ([]models.Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status types.BookingStatus, at time.Time) (*models.Booking, error)
	ListCheckingInOn(ctx context.Context, date string) ([]models.Booking, error)
}

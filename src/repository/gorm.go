package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"travl/src/models"
	"travl/src/models/scopes"
	"travl/src/types"

	"gorm.io/gorm"
)

type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) Create(ctx context.Context, b *models.Booking) error {
	for i := range b.Guests {
		b.Guests[i].Position = i
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(b).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		log.Printf("Error creating Booking %s: %s\n", b.ID, err.Error())
		return err
	}
	return nil
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.
		WithContext(ctx).
		Model(&models.Booking{}).
		Scopes(scopes.WithID(id)).
		Preload("Guests", scopes.OrderedGuests).
		First(&booking).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *GormBookingRepository) GetByGuestEmail(ctx context.Context, email string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	err := r.db.
		WithContext(ctx).
		Model(&models.Booking{}).
		Scopes(scopes.WithGuestEmail(email)).
		Preload("Guests", scopes.OrderedGuests).
		Order("created_at asc").
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *GormBookingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error) {
	if transactionID == "" {
		return nil, ErrNotFound
	}
	var booking models.Booking
	err := r.db.
		WithContext(ctx).
		Model(&models.Booking{}).
		Scopes(scopes.WithTransactionID(transactionID)).
		Preload("Guests", scopes.OrderedGuests).
		First(&booking).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id string, status types.BookingStatus, at time.Time) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Scopes(scopes.WithID(id)).
			Preload("Guests", scopes.OrderedGuests).
			First(&booking).
			Error; err != nil {
			return err
		}
		if err := tx.
			Model(&booking).
			Updates(map[string]any{"status": status, "updated_at": at}).
			Error; err != nil {
			log.Printf("Error updating status for Booking %s: %s\n", id, err.Error())
			return err
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	booking.Status = status
	booking.UpdatedAt = at
	return &booking, nil
}

func (r *GormBookingRepository) ListCheckingInOn(ctx context.Context, date string) ([]models.Booking, error) {
	bookings := make([]models.Booking, 0)
	err := r.db.
		WithContext(ctx).
		Model(&models.Booking{}).
		Where("checkin = ?", date).
		Scopes(scopes.WithConfirmedStatus).
		Preload("Guests", scopes.OrderedGuests).
		Limit(500).
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

package scopes

import (
	"travl/src/types"

	"gorm.io/gorm"
)

func WithID(id string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	}
}

func WithTransactionID(transactionID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("transaction_id = ?", transactionID)
	}
}

// WithGuestEmail matches bookings that list email among their guests.
func WithGuestEmail(email string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		guests := db.Session(&gorm.Session{NewDB: true}).Table("booking_guests").Select("booking_id").Where("email = ?", email)
		return db.Where("id IN (?)", guests)
	}
}

func WithConfirmedStatus(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", types.BOOKING_CONFIRMED)
}

func OrderedGuests(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

package models

import (
	"time"

	"travl/src/types"
)

type Booking struct {
	ID            string              `gorm:"primaryKey;size:16" json:"id"`
	Destination   types.Destination   `gorm:"serializer:json" json:"destination"`
	Checkin       string              `gorm:"index;size:10" json:"checkin"`
	Checkout      string              `gorm:"size:10" json:"checkout"`
	Travelers     int                 `json:"travelers"`
	Guests        []Guest             `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"guests"`
	TotalPrice    float64             `json:"totalPrice"`
	PaymentMethod types.PaymentMethod `gorm:"size:16" json:"paymentMethod"`
	TransactionID string              `gorm:"index" json:"transactionId,omitempty"`
	Status        types.BookingStatus `gorm:"index;size:16" json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// Guest rows keep the order travelers were entered in; position 0 is the primary contact.
type Guest struct {
	ID              uint   `gorm:"primarykey" json:"-"`
	BookingID       string `gorm:"index;size:16" json:"-"`
	Position        int    `json:"-"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `gorm:"index" json:"email"`
	Phone           string `json:"phone,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

func (Guest) TableName() string {
	return "booking_guests"
}

func NewBooking(body *types.CreateBookingRequestBody) *Booking {
	b := &Booking{
		Destination:   body.Destination,
		Checkin:       body.Checkin,
		Checkout:      body.Checkout,
		Travelers:     body.Travelers,
		TotalPrice:    body.TotalPrice,
		PaymentMethod: body.PaymentMethod,
		TransactionID: body.TransactionID,
	}
	b.Guests = make([]Guest, 0, len(body.Guests))
	for i, g := range body.Guests {
		b.Guests = append(b.Guests, Guest{
			Position:        i,
			FirstName:       g.FirstName,
			LastName:        g.LastName,
			Email:           g.Email,
			Phone:           g.Phone,
			SpecialRequests: g.SpecialRequests,
		})
	}
	return b
}

// Clone returns a copy that shares no slices with b.
func (b *Booking) Clone() *Booking {
	c := *b
	c.Guests = append([]Guest(nil), b.Guests...)
	return &c
}

func (b *Booking) HasGuest(email string) bool {
	for _, g := range b.Guests {
		if g.Email == email {
			return true
		}
	}
	return false
}

func (b *Booking) ToRecord() types.BookingRecord {
	guests := make([]types.Guest, 0, len(b.Guests))
	for _, g := range b.Guests {
		guests = append(guests, types.Guest{
			FirstName:       g.FirstName,
			LastName:        g.LastName,
			Email:           g.Email,
			Phone:           g.Phone,
			SpecialRequests: g.SpecialRequests,
		})
	}
	return types.BookingRecord{
		ID:            b.ID,
		Destination:   b.Destination,
		Checkin:       b.Checkin,
		Checkout:      b.Checkout,
		Travelers:     b.Travelers,
		Guests:        guests,
		TotalPrice:    b.TotalPrice,
		PaymentMethod: b.PaymentMethod,
		TransactionID: b.TransactionID,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

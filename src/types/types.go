package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Destination struct {
	ID    string  `json:"id"`
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"gte=0"`
	Image string  `json:"image,omitempty"`
}

type Guest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,travelemail"`
	Phone           string `json:"phone,omitempty"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

type PaymentMethod string

const (
	PAYMENT_CARD   PaymentMethod = "card"
	PAYMENT_WALLET PaymentMethod = "wallet"
)

type BookingStatus string

const (
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_SUCCEEDED PaymentStatus = "succeeded"
	PAYMENT_FAILED    PaymentStatus = "failed"
)

type BookingEventType string

const (
	EVENT_BOOKING_CREATED   BookingEventType = "booking.created"
	EVENT_BOOKING_CANCELLED BookingEventType = "booking.cancelled"
)

type CreateBookingRequestBody struct {
	Destination   Destination   `json:"destination"`
	Checkin       string        `json:"checkin" binding:"required,datetime=2006-01-02"`
	Checkout      string        `json:"checkout" binding:"required,datetime=2006-01-02,afterdate=Checkin"`
	Travelers     int           `json:"travelers" binding:"required,min=1"`
	Guests        []Guest       `json:"guests" binding:"required,min=1,dive"`
	TotalPrice    float64       `json:"totalPrice" binding:"gte=0"`
	PaymentMethod PaymentMethod `json:"paymentMethod" binding:"required,oneof=card wallet"`
	TransactionID string        `json:"transactionId,omitempty"`
}

type BookingURIParams struct {
	BookingID string `uri:"bookingId" binding:"required"`
}

type TravelerURIParams struct {
	UserID string `uri:"userId" binding:"required"`
}

type CreatePaymentIntentRequestBody struct {
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency,omitempty"`
	BookingID     string `json:"bookingId"`
	CustomerEmail string `json:"customerEmail"`
}

type CreateWalletOrderRequestBody struct {
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Currency  string `json:"currency,omitempty"`
	BookingID string `json:"bookingId"`
}

type CaptureWalletOrderRequestBody struct {
	OrderID string `json:"orderID" binding:"required"`
}

type RefundRequestBody struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	Amount          int64  `json:"amount,omitempty" binding:"gte=0"`
}

// BookingRecord is the wire shape of a stored booking.
type BookingRecord struct {
	ID            string        `json:"id"`
	Destination   Destination   `json:"destination"`
	Checkin       string        `json:"checkin"`
	Checkout      string        `json:"checkout"`
	Travelers     int           `json:"travelers"`
	Guests        []Guest       `json:"guests"`
	TotalPrice    float64       `json:"totalPrice"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TransactionID string        `json:"transactionId,omitempty"`
	Status        BookingStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type APIResponseBooking struct {
	APIResponse
	Booking *BookingRecord `json:"booking,omitempty"`
	Mock    bool           `json:"mock,omitempty"`
}

type APIResponseBookings struct {
	APIResponse
	Bookings []BookingRecord `json:"bookings"`
}

type APIResponsePaymentIntent struct {
	APIResponse
	ClientSecret    string `json:"clientSecret,omitempty"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
}

type APIResponseWalletOrder struct {
	APIResponse
	OrderID  string `json:"orderID,omitempty"`
	Amount   int64  `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type APIResponseWalletCapture struct {
	APIResponse
	TransactionID string `json:"transactionId,omitempty"`
}

type APIResponseRefund struct {
	APIResponse
	RefundID string `json:"refundId,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ProfileBooking is the denormalized copy kept on a traveler's profile.
type ProfileBooking struct {
	ID          string        `json:"id"`
	Destination Destination   `json:"destination"`
	Checkin     string        `json:"checkin"`
	Checkout    string        `json:"checkout"`
	Travelers   int           `json:"travelers"`
	Guests      []Guest       `json:"guests"`
	TotalPrice  float64       `json:"totalPrice"`
	Payment     JSONB         `json:"payment"`
	Status      BookingStatus `json:"status"`
	BookedAt    time.Time     `json:"bookedAt"`
}

type BookingEvent struct {
	ID         string           `json:"id"`
	Type       BookingEventType `json:"type"`
	Booking    BookingRecord    `json:"booking"`
	OccurredAt time.Time        `json:"occurredAt"`
}

type Handler func(payload string)

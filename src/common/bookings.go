package common

import (
	"context"
	"errors"
	"log"
	"time"

	"travl/src/lib"
	"travl/src/models"
	"travl/src/repository"
	"travl/src/types"
	"travl/src/utils"
)

const maxIDAttempts = 3

type BookingService struct {
	repo   repository.BookingRepository
	events lib.EventPublisher
	now    func() time.Time
	newID  func() string
}

func NewBookingService(repo repository.BookingRepository, events lib.EventPublisher) *BookingService {
	if events == nil {
		events = lib.LogPublisher{}
	}
	return &BookingService{
		repo:   repo,
		events: events,
		now:    time.Now,
		newID:  utils.NewBookingID,
	}
}

func (s *BookingService) newRecord(body *types.CreateBookingRequestBody) *models.Booking {
	b := models.NewBooking(body)
	b.Destination = utils.NormalizeDestination(b.Destination)
	b.ID = s.newID()
	b.Status = types.BOOKING_CONFIRMED
	now := s.now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	return b
}

// Create stores a confirmed booking. Payment is trusted to have been confirmed by the caller.
func (s *BookingService) Create(ctx context.Context, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	b := s.newRecord(body)
	var err error
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		err = s.repo.Create(ctx, b)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		log.Printf("[Bookings] id %s taken, retrying\n", b.ID)
		b.ID = s.newID()
	}
	if err != nil {
		return nil, err
	}
	lib.BookingsTotal.WithLabelValues(string(types.EVENT_BOOKING_CREATED)).Inc()
	s.publish(ctx, types.EVENT_BOOKING_CREATED, b)
	return b, nil
}

// Mock builds a confirmed booking without storing it or emitting events.
func (s *BookingService) Mock(ctx context.Context, body *types.CreateBookingRequestBody) *models.Booking {
	lib.BookingsTotal.WithLabelValues("booking.mocked").Inc()
	return s.newRecord(body)
}

func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookingService) ListForTraveler(ctx context.Context, email string) ([]models.Booking, error) {
	return s.repo.GetByGuestEmail(ctx, email)
}

// Cancel is idempotent: cancelling a cancelled booking returns it unchanged.
func (s *BookingService) Cancel(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == types.BOOKING_CANCELLED {
		return b, nil
	}
	b, err = s.repo.UpdateStatus(ctx, id, types.BOOKING_CANCELLED, s.now().UTC())
	if err != nil {
		return nil, err
	}
	lib.BookingsTotal.WithLabelValues(string(types.EVENT_BOOKING_CANCELLED)).Inc()
	s.publish(ctx, types.EVENT_BOOKING_CANCELLED, b)
	return b, nil
}

func (s *BookingService) CancelByTransaction(ctx context.Context, transactionID string) (*models.Booking, error) {
	b, err := s.repo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return s.Cancel(ctx, b.ID)
}

func (s *BookingService) CheckingInOn(ctx context.Context, date time.Time) ([]models.Booking, error) {
	return s.repo.ListCheckingInOn(ctx, date.Format("2006-01-02"))
}

func (s *BookingService) publish(ctx context.Context, t types.BookingEventType, b *models.Booking) {
	event := lib.NewBookingEvent(t, b.ToRecord())
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("Error publishing %s for Booking %s: %s\n", t, b.ID, err.Error())
	}
}

package common

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"travl/src/repository"
	"travl/src/types"

	"github.com/stretchr/testify/suite"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []types.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e types.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func createBody(email string) *types.CreateBookingRequestBody {
	return &types.CreateBookingRequestBody{
		Destination:   types.Destination{Name: "Paris Getaway", Price: 200},
		Checkin:       "2024-01-01",
		Checkout:      "2024-01-04",
		Travelers:     1,
		Guests:        []types.Guest{{FirstName: "John", LastName: "Doe", Email: email}},
		TotalPrice:    685,
		PaymentMethod: types.PAYMENT_CARD,
		TransactionID: "pi_123",
	}
}

type BookingServiceTestSuite struct {
	suite.Suite
	repo   *repository.MemoryBookingRepository
	events *recordingPublisher
	svc    *BookingService
}

func (s *BookingServiceTestSuite) SetupTest() {
	s.repo = repository.NewMemoryBookingRepository()
	s.events = &recordingPublisher{}
	s.svc = NewBookingService(s.repo, s.events)
}

func (s *BookingServiceTestSuite) TestCreate() {
	b, err := s.svc.Create(context.Background(), createBody("john@test.com"))
	s.Require().NoError(err)
	s.True(strings.HasPrefix(b.ID, "TRV"))
	s.Equal(types.BOOKING_CONFIRMED, b.Status)
	s.Equal("paris-getaway", b.Destination.ID)
	s.False(b.CreatedAt.IsZero())
	s.Equal(b.CreatedAt, b.UpdatedAt)

	stored, err := s.svc.Get(context.Background(), b.ID)
	s.Require().NoError(err)
	s.Equal(b.ID, stored.ID)

	s.Require().Len(s.events.events, 1)
	s.Equal(types.EVENT_BOOKING_CREATED, s.events.events[0].Type)
	s.Equal(b.ID, s.events.events[0].Booking.ID)
}

func (s *BookingServiceTestSuite) TestCreateIgnoresPublishFailure() {
	s.events.err = fmt.Errorf("broker down")
	_, err := s.svc.Create(context.Background(), createBody("john@test.com"))
	s.NoError(err)
}

func (s *BookingServiceTestSuite) TestCreateRetriesTakenID() {
	ids := []string{"TRV00000001", "TRV00000001", "TRV00000002"}
	s.svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	first, err := s.svc.Create(context.Background(), createBody("a@test.com"))
	s.Require().NoError(err)
	second, err := s.svc.Create(context.Background(), createBody("b@test.com"))
	s.Require().NoError(err)
	s.Equal("TRV00000001", first.ID)
	s.Equal("TRV00000002", second.ID)
}

func (s *BookingServiceTestSuite) TestConcurrentCreateUniqueIDs() {
	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := s.svc.Create(context.Background(), createBody("c@test.com"))
			s.NoError(err)
			ids <- b.ID
		}()
	}
	wg.Wait()
	close(ids)
	seen := map[string]bool{}
	for id := range ids {
		s.False(seen[id], id)
		seen[id] = true
	}
	s.Len(seen, 100)
}

func (s *BookingServiceTestSuite) TestMockDoesNotPersist() {
	b := s.svc.Mock(context.Background(), createBody("john@test.com"))
	s.True(strings.HasPrefix(b.ID, "TRV"))
	s.Equal(types.BOOKING_CONFIRMED, b.Status)
	_, err := s.svc.Get(context.Background(), b.ID)
	s.ErrorIs(err, repository.ErrNotFound)
	s.Empty(s.events.events)
}

func (s *BookingServiceTestSuite) TestListForTraveler() {
	ctx := context.Background()
	_, _ = s.svc.Create(ctx, createBody("john@test.com"))
	_, _ = s.svc.Create(ctx, createBody("jane@test.com"))
	found, err := s.svc.ListForTraveler(ctx, "john@test.com")
	s.Require().NoError(err)
	s.Len(found, 1)
	found, _ = s.svc.ListForTraveler(ctx, "JOHN@test.com")
	s.Empty(found)
}

func (s *BookingServiceTestSuite) TestCancel() {
	ctx := context.Background()
	b, _ := s.svc.Create(ctx, createBody("john@test.com"))
	later := b.CreatedAt.Add(time.Hour)
	s.svc.now = func() time.Time { return later }

	cancelled, err := s.svc.Cancel(ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(types.BOOKING_CANCELLED, cancelled.Status)
	s.Equal(later, cancelled.UpdatedAt)

	again, err := s.svc.Cancel(ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(later, again.UpdatedAt)
	s.Len(s.events.events, 2)

	_, err = s.svc.Cancel(ctx, "TRV99999999")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *BookingServiceTestSuite) TestCancelByTransaction() {
	ctx := context.Background()
	b, _ := s.svc.Create(ctx, createBody("john@test.com"))
	cancelled, err := s.svc.CancelByTransaction(ctx, "pi_123")
	s.Require().NoError(err)
	s.Equal(b.ID, cancelled.ID)
	s.Equal(types.BOOKING_CANCELLED, cancelled.Status)

	_, err = s.svc.CancelByTransaction(ctx, "pi_unknown")
	s.ErrorIs(err, repository.ErrNotFound)
}

func (s *BookingServiceTestSuite) TestCheckingInOn() {
	ctx := context.Background()
	_, _ = s.svc.Create(ctx, createBody("john@test.com"))
	found, err := s.svc.CheckingInOn(ctx, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Len(found, 1)
}

func TestBookingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceTestSuite))
}

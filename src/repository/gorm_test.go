package repository

import (
	"context"
	"log"
	"regexp"
	"testing"
	"time"

	"travl/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GormRepositoryTestSuite struct {
	suite.Suite
	Mock sqlmock.Sqlmock
	Repo *GormBookingRepository
}

func newMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}
	return gormDB, mock
}

func (s *GormRepositoryTestSuite) SetupTest() {
	db, mock := newMockDB()
	s.Mock = mock
	s.Repo = NewGormBookingRepository(db)
}

func (s *GormRepositoryTestSuite) TearDownTest() {
	s.NoError(s.Mock.ExpectationsWereMet())
}

func bookingRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "destination", "checkin", "checkout", "travelers", "total_price", "payment_method", "transaction_id", "status", "created_at", "updated_at"}).
		AddRow("TRV00000001", `{"id":"paris","name":"Paris","price":200}`, "2024-01-01", "2024-01-04", 1, 685.0, "card", "pi_123", "confirmed", now, now)
}

func guestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "booking_id", "position", "first_name", "last_name", "email", "phone", "special_requests"}).
		AddRow(1, "TRV00000001", 0, "John", "Doe", "john@test.com", "", "")
}

func (s *GormRepositoryTestSuite) TestGetByID() {
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(bookingRows())
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "booking_guests" WHERE "booking_guests"."booking_id" = $1`)).
		WillReturnRows(guestRows())

	b, err := s.Repo.GetByID(context.Background(), "TRV00000001")
	s.Require().NoError(err)
	s.Equal("Paris", b.Destination.Name)
	s.Equal(200.0, b.Destination.Price)
	s.Equal(types.BOOKING_CONFIRMED, b.Status)
	s.Require().Len(b.Guests, 1)
	s.Equal("john@test.com", b.Guests[0].Email)
}

func (s *GormRepositoryTestSuite) TestGetByIDNotFound() {
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.Repo.GetByID(context.Background(), "TRV99999999")
	s.ErrorIs(err, ErrNotFound)
}

func (s *GormRepositoryTestSuite) TestGetByGuestEmail() {
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id IN (SELECT`)).
		WithArgs("john@test.com").
		WillReturnRows(bookingRows())
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "booking_guests"`)).
		WillReturnRows(guestRows())

	found, err := s.Repo.GetByGuestEmail(context.Background(), "john@test.com")
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("TRV00000001", found[0].ID)
}

func (s *GormRepositoryTestSuite) TestUpdateStatusNotFound() {
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.Mock.ExpectRollback()

	_, err := s.Repo.UpdateStatus(context.Background(), "TRV99999999", types.BOOKING_CANCELLED, time.Now())
	s.ErrorIs(err, ErrNotFound)
}

func (s *GormRepositoryTestSuite) TestUpdateStatus() {
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	s.Mock.ExpectBegin()
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(bookingRows())
	s.Mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "booking_guests"`)).
		WillReturnRows(guestRows())
	s.Mock.ExpectExec(regexp.QuoteMeta(`UPDATE "bookings" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.Mock.ExpectCommit()

	b, err := s.Repo.UpdateStatus(context.Background(), "TRV00000001", types.BOOKING_CANCELLED, at)
	s.Require().NoError(err)
	s.Equal(types.BOOKING_CANCELLED, b.Status)
	s.Equal(at, b.UpdatedAt)
}

func TestGormRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormRepositoryTestSuite))
}

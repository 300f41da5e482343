package main

import (
	"context"
	"net/http"
	"net/http/httptest"

	"travl/src/client"
	"travl/src/payment"
	"travl/src/types"
	"travl/src/wizard"
)

func (s *TestSuite) runWizard(srv *httptest.Server) (*wizard.Wizard, *client.Client, *wizard.MemoryProfileStore) {
	ctx := context.Background()
	api := client.New(srv.URL, client.WithTokenSource(func() string { return s.Token }))
	profile := wizard.NewMemoryProfileStore()
	w := wizard.New(api, payment.NewGateway(api, payment.NewSimulatedCardProvider()), wizard.WithProfile(profile, "user-1"))

	w.SetDestination(types.Destination{ID: "paris", Name: "Paris", Price: 200})
	w.SetDates("2024-01-01", "2024-01-04")
	s.Require().NoError(w.Advance(ctx))
	s.Require().NoError(w.SubmitGuest(ctx, types.Guest{FirstName: "John", LastName: "Doe", Email: "john@test.com"}))
	w.SelectPaymentMethod(payment.CardMethod{
		Card:          payment.Card{Number: "4242 4242 4242 4242", Expiry: "12/99", CVV: "123"},
		CustomerEmail: "john@test.com",
	})
	s.Require().NoError(w.Advance(ctx))
	return w, api, profile
}

func (s *TestSuite) TestBookingFlowEndToEnd() {
	srv := httptest.NewServer(s.Router)
	defer srv.Close()

	w, api, profile := s.runWizard(srv)
	s.Equal(wizard.Confirmation, w.Step())
	s.False(w.Degraded())

	d := w.Draft()
	s.Equal(685.0, d.TotalPrice)
	s.Equal("pi_123", d.Payment.TransactionID)
	s.Equal(types.PAYMENT_SUCCEEDED, d.Payment.Status)

	stored, err := api.GetBooking(context.Background(), d.BookingID)
	s.Require().NoError(err)
	s.Equal(types.BOOKING_CONFIRMED, stored.Status)
	s.Equal(685.0, stored.TotalPrice)
	s.Equal("pi_123", stored.TransactionID)
	s.Equal("TRV", stored.ID[:3])

	mine, err := api.GetUserBookings(context.Background(), "john@test.com")
	s.Require().NoError(err)
	s.Len(mine, 1)

	saved, _ := profile.ListBookings(context.Background(), "user-1")
	s.Len(saved, 1)
}

func (s *TestSuite) TestBookingFlowDegraded() {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookings/create", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	mux.Handle("/", s.Router)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	w, api, _ := s.runWizard(srv)
	s.Equal(wizard.Confirmation, w.Step())
	s.True(w.Degraded())

	_, err := api.GetBooking(context.Background(), w.Draft().BookingID)
	var herr *client.HTTPError
	s.Require().ErrorAs(err, &herr)
	s.Equal(http.StatusNotFound, herr.Status)
}

// Package wizard walks a traveler through details, guests and payment to a confirmed booking.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"travl/src/client"
	"travl/src/payment"
	"travl/src/pricing"
	"travl/src/types"
	"travl/src/validation"

	"github.com/go-playground/validator/v10"
)

const dateFormat = "2006-01-02"

type Booker interface {
	CreateBooking(ctx context.Context, req *types.CreateBookingRequestBody) (*client.BookingResult, error)
}

type Charger interface {
	Charge(ctx context.Context, m payment.Method, amountCents int64, currency, bookingID string) (*payment.Result, error)
}

type PaymentSelection struct {
	Method        payment.Method
	TransactionID string
	Status        types.PaymentStatus
	AmountCents   int64
}

// paidFor reports whether the selection was charged successfully for exactly totalCents.
func (p *PaymentSelection) paidFor(totalCents int64) bool {
	return p != nil && p.Status == types.PAYMENT_SUCCEEDED && p.AmountCents == totalCents
}

// Draft is a snapshot of the booking being assembled.
type Draft struct {
	Destination *types.Destination
	Checkin     string
	Checkout    string
	Travelers   int
	Guests      []types.Guest
	Payment     *PaymentSelection
	TotalPrice  float64
	BookingID   string
}

// Wizard is not safe for concurrent use.
type Wizard struct {
	step       Step
	draft      Draft
	booker     Booker
	charger    Charger
	profile    ProfileRecorder
	userID     string
	currency   string
	onComplete func(Draft)
	validate   *validator.Validate
	now        func() time.Time
	degraded   bool
	lastErr    error
}

type Option func(*Wizard)

// WithProfile records confirmed bookings on userID's profile.
func WithProfile(p ProfileRecorder, userID string) Option {
	return func(w *Wizard) {
		w.profile = p
		w.userID = userID
	}
}

func WithCompletion(fn func(Draft)) Option {
	return func(w *Wizard) { w.onComplete = fn }
}

func WithCurrency(currency string) Option {
	return func(w *Wizard) { w.currency = currency }
}

func New(booker Booker, charger Charger, opts ...Option) *Wizard {
	w := &Wizard{
		step:     Details,
		draft:    Draft{Travelers: 1},
		booker:   booker,
		charger:  charger,
		currency: "usd",
		validate: validation.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Wizard) Step() Step { return w.step }

// Degraded reports whether the confirmed booking came from the fallback backend.
func (w *Wizard) Degraded() bool { return w.degraded }

// Err is the error of the last failed submission.
func (w *Wizard) Err() error { return w.lastErr }

func (w *Wizard) Draft() Draft {
	d := w.draft
	if d.Destination != nil {
		dest := *d.Destination
		d.Destination = &dest
	}
	d.Guests = append([]types.Guest(nil), w.draft.Guests...)
	if d.Payment != nil {
		p := *d.Payment
		d.Payment = &p
	}
	return d
}

func (w *Wizard) SetDestination(d types.Destination) {
	w.draft.Destination = &d
	w.recalculate()
}

func (w *Wizard) SetDates(checkin, checkout string) {
	w.draft.Checkin = checkin
	w.draft.Checkout = checkout
	w.recalculate()
}

func (w *Wizard) SetTravelers(n int) error {
	if n < 1 {
		return &ValidationError{Step: Details, Problems: []string{"at least one traveler is required"}}
	}
	w.draft.Travelers = n
	return nil
}

func (w *Wizard) SetGuests(guests []types.Guest) {
	w.draft.Guests = append([]types.Guest(nil), guests...)
}

// SubmitGuest replaces the guest list with a single primary guest and moves on.
func (w *Wizard) SubmitGuest(ctx context.Context, g types.Guest) error {
	if problems := w.guestProblems(0, g); len(problems) > 0 {
		return &ValidationError{Step: Guests, Problems: problems}
	}
	w.draft.Guests = []types.Guest{g}
	return w.Advance(ctx)
}

// SelectPaymentMethod discards any earlier payment outcome.
func (w *Wizard) SelectPaymentMethod(m payment.Method) {
	w.draft.Payment = &PaymentSelection{Method: m}
}

// CompleteWalletPayment charges the selected wallet for the current total.
// A wallet already paid for that total is not charged again.
func (w *Wizard) CompleteWalletPayment(ctx context.Context) error {
	sel := w.draft.Payment
	if sel == nil || sel.Method == nil || sel.Method.Kind() != types.PAYMENT_WALLET {
		return &ValidationError{Step: Payment, Problems: []string{"wallet payment is not selected"}}
	}
	if sel.paidFor(w.totalCents()) {
		return nil
	}
	return w.charge(ctx)
}

func (w *Wizard) totalCents() int64 {
	return pricing.ToCents(w.draft.TotalPrice)
}

func (w *Wizard) charge(ctx context.Context) error {
	sel := w.draft.Payment
	amount := w.totalCents()
	res, err := w.charger.Charge(ctx, sel.Method, amount, w.currency, "")
	sel.AmountCents = amount
	if res != nil {
		sel.TransactionID = res.TransactionID
		sel.Status = res.Status
	}
	if err != nil {
		sel.Status = types.PAYMENT_FAILED
		return fmt.Errorf("payment failed: %w", err)
	}
	return nil
}

func (w *Wizard) Summary() pricing.Breakdown {
	checkin, checkout, ok := w.dates()
	if w.draft.Destination == nil || !ok {
		return pricing.Breakdown{}
	}
	return pricing.Compute(w.draft.Destination.Price, pricing.Nights(checkin, checkout))
}

func (w *Wizard) dates() (time.Time, time.Time, bool) {
	checkin, err := time.Parse(dateFormat, w.draft.Checkin)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	checkout, err := time.Parse(dateFormat, w.draft.Checkout)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return checkin, checkout, true
}

// recalculate refreshes the total and drops a payment outcome that no longer covers it.
func (w *Wizard) recalculate() {
	total := w.Summary().TotalCents
	w.draft.TotalPrice = pricing.FromCents(total)
	if sel := w.draft.Payment; sel != nil && sel.Status != "" && sel.AmountCents != total {
		w.draft.Payment = &PaymentSelection{Method: sel.Method}
	}
}

func (w *Wizard) guestProblems(i int, g types.Guest) []string {
	err := w.validate.Struct(g)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			problems = append(problems, fmt.Sprintf("guest %d: %s is required", i+1, fe.Field()))
		default:
			problems = append(problems, fmt.Sprintf("guest %d: %s is invalid", i+1, fe.Field()))
		}
	}
	return problems
}

func (w *Wizard) check(s Step) error {
	var problems []string
	switch s {
	case Details:
		if w.draft.Destination == nil {
			problems = append(problems, "destination is required")
		}
		checkin, checkout, ok := w.dates()
		if !ok {
			problems = append(problems, "check-in and check-out dates are required")
		} else if !checkout.After(checkin) {
			problems = append(problems, "check-out must be after check-in")
		}
	case Guests:
		if len(w.draft.Guests) == 0 {
			problems = append(problems, "at least one guest is required")
		}
		for i, g := range w.draft.Guests {
			problems = append(problems, w.guestProblems(i, g)...)
		}
	case Payment:
		if w.draft.Payment == nil || w.draft.Payment.Method == nil {
			problems = append(problems, "payment method is required")
		}
	}
	if len(problems) > 0 {
		return &ValidationError{Step: s, Problems: problems}
	}
	return nil
}

// Advance validates the current step and moves forward. From Payment it submits the booking.
func (w *Wizard) Advance(ctx context.Context) error {
	if err := w.check(w.step); err != nil {
		return err
	}
	switch w.step {
	case Payment:
		return w.Submit(ctx)
	case Confirmation:
		return nil
	}
	w.step++
	return nil
}

func (w *Wizard) GoBack() {
	if w.step > Details {
		w.step--
	}
}

// Submit charges a card unless it was already charged for the current total, then creates the booking.
// On failure the wizard stays on Payment.
func (w *Wizard) Submit(ctx context.Context) error {
	w.lastErr = w.submit(ctx)
	return w.lastErr
}

func (w *Wizard) submit(ctx context.Context) error {
	if w.step != Payment {
		return fmt.Errorf("cannot submit from step %s", w.step)
	}
	for _, s := range []Step{Details, Guests, Payment} {
		if err := w.check(s); err != nil {
			return err
		}
	}
	sel := w.draft.Payment
	if !sel.paidFor(w.totalCents()) {
		if sel.Method.Kind() == types.PAYMENT_WALLET {
			return &ValidationError{Step: Payment, Problems: []string{"wallet payment has not been completed"}}
		}
		if err := w.charge(ctx); err != nil {
			return err
		}
	}

	res, err := w.booker.CreateBooking(ctx, w.bookingRequest())
	if err != nil {
		return fmt.Errorf("booking failed: %w", err)
	}
	if res.Degraded {
		log.Printf("[Wizard] Booking %s stored by fallback backend: %s\n", res.Booking.ID, res.PrimaryErr)
	}
	w.draft.BookingID = res.Booking.ID
	w.degraded = res.Degraded
	w.step = Confirmation
	w.recordProfile(ctx, res.Booking)
	if w.onComplete != nil {
		w.onComplete(w.Draft())
	}
	return nil
}

func (w *Wizard) bookingRequest() *types.CreateBookingRequestBody {
	d := w.Draft()
	return &types.CreateBookingRequestBody{
		Destination:   *d.Destination,
		Checkin:       d.Checkin,
		Checkout:      d.Checkout,
		Travelers:     d.Travelers,
		Guests:        d.Guests,
		TotalPrice:    d.TotalPrice,
		PaymentMethod: d.Payment.Method.Kind(),
		TransactionID: d.Payment.TransactionID,
	}
}

func (w *Wizard) recordProfile(ctx context.Context, b types.BookingRecord) {
	if w.profile == nil || w.userID == "" {
		return
	}
	sel := w.draft.Payment
	snapshot := types.ProfileBooking{
		ID:          b.ID,
		Destination: *w.draft.Destination,
		Checkin:     w.draft.Checkin,
		Checkout:    w.draft.Checkout,
		Travelers:   w.draft.Travelers,
		Guests:      append([]types.Guest(nil), w.draft.Guests...),
		TotalPrice:  w.draft.TotalPrice,
		Payment: types.JSONB{
			"method": string(sel.Method.Kind()),
			"details": map[string]any{
				"transactionId": sel.TransactionID,
				"status":        string(sel.Status),
			},
		},
		Status:   types.BOOKING_CONFIRMED,
		BookedAt: w.now().UTC(),
	}
	if err := w.profile.AppendBooking(ctx, w.userID, snapshot); err != nil {
		log.Printf("[Wizard] Error saving Booking %s to profile %s: %s\n", b.ID, w.userID, err.Error())
	}
}

// Command book runs one booking through the wizard against a travl backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"travl/src/client"
	"travl/src/config"
	"travl/src/lib"
	"travl/src/payment"
	"travl/src/types"
	"travl/src/utils"
	"travl/src/wizard"

	"github.com/joho/godotenv"
)

type options struct {
	api         string
	token       string
	userID      string
	destination string
	price       float64
	checkin     string
	checkout    string
	travelers   int
	firstName   string
	lastName    string
	email       string
	phone       string
	method      string
	cardNumber  string
	expiry      string
	cvv         string
	stripeKey   string
	timeout     time.Duration
}

func parseFlags(args []string) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	fs.StringVar(&o.api, "api", "http://localhost:3001", "booking API base URL")
	fs.StringVar(&o.token, "token", os.Getenv("TRAVL_TOKEN"), "bearer token")
	fs.StringVar(&o.userID, "user", "", "profile to record the booking on")
	fs.StringVar(&o.destination, "destination", "", "destination name")
	fs.Float64Var(&o.price, "price", 0, "nightly price")
	fs.StringVar(&o.checkin, "checkin", "", "check-in date (YYYY-MM-DD)")
	fs.StringVar(&o.checkout, "checkout", "", "check-out date (YYYY-MM-DD)")
	fs.IntVar(&o.travelers, "travelers", 1, "number of travelers")
	fs.StringVar(&o.firstName, "first-name", "", "primary guest first name")
	fs.StringVar(&o.lastName, "last-name", "", "primary guest last name")
	fs.StringVar(&o.email, "email", "", "primary guest email")
	fs.StringVar(&o.phone, "phone", "", "primary guest phone")
	fs.StringVar(&o.method, "method", "card", "payment method: card or wallet")
	fs.StringVar(&o.cardNumber, "card", "", "card number")
	fs.StringVar(&o.expiry, "expiry", "", "card expiry (MM/YY)")
	fs.StringVar(&o.cvv, "cvv", "", "card CVV")
	fs.StringVar(&o.stripeKey, "stripe-key", "", "Stripe key; the simulated card provider is used when empty")
	fs.DurationVar(&o.timeout, "timeout", 2*time.Minute, "overall timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.method != string(types.PAYMENT_CARD) && o.method != string(types.PAYMENT_WALLET) {
		return nil, fmt.Errorf("unknown payment method %q", o.method)
	}
	return o, nil
}

func cardProvider(o *options) payment.CardProvider {
	if o.stripeKey == "" {
		return payment.NewSimulatedCardProvider()
	}
	return payment.NewStripeCardProvider(lib.NewStripeClientWithURL(o.stripeKey, "https://api.stripe.com"))
}

func profileStore() wizard.ProfileRecorder {
	if rdb := lib.GetRedisClient(); rdb != nil {
		return lib.NewRedisProfileStore(rdb)
	}
	return wizard.NewMemoryProfileStore()
}

func run(ctx context.Context, o *options) error {
	api := client.New(o.api, client.WithTokenSource(func() string { return o.token }))
	gateway := payment.NewGateway(api, cardProvider(o))
	w := wizard.New(api, gateway, wizard.WithProfile(profileStore(), o.userID))

	w.SetDestination(utils.NormalizeDestination(types.Destination{Name: o.destination, Price: o.price}))
	w.SetDates(o.checkin, o.checkout)
	if err := w.SetTravelers(o.travelers); err != nil {
		return err
	}
	if err := w.Advance(ctx); err != nil {
		return err
	}
	guest := types.Guest{FirstName: o.firstName, LastName: o.lastName, Email: o.email, Phone: o.phone}
	if err := w.SubmitGuest(ctx, guest); err != nil {
		return err
	}

	sum := w.Summary()
	fmt.Printf("%d night(s): base %.2f, taxes %.2f, service fee %.2f, total %.2f\n",
		sum.Nights, float64(sum.BaseCents)/100, float64(sum.TaxCents)/100, float64(sum.FeeCents)/100, float64(sum.TotalCents)/100)

	if o.method == string(types.PAYMENT_WALLET) {
		w.SelectPaymentMethod(payment.WalletMethod{})
		if err := w.CompleteWalletPayment(ctx); err != nil {
			return err
		}
	} else {
		fmt.Printf("Charging %s card %s\n", payment.CardType(o.cardNumber), payment.FormatCardNumber(o.cardNumber))
		w.SelectPaymentMethod(payment.CardMethod{
			Card:          payment.Card{Number: o.cardNumber, Expiry: o.expiry, CVV: o.cvv, Holder: o.firstName + " " + o.lastName},
			CustomerEmail: o.email,
		})
	}
	if err := w.Advance(ctx); err != nil {
		return err
	}

	d := w.Draft()
	fmt.Printf("Booking %s confirmed (%s, transaction %s)\n", d.BookingID, wizard.StepLabel(w.Step()), d.Payment.TransactionID)
	if w.Degraded() {
		fmt.Println("Warning: the booking service is degraded; this booking was stored by the fallback endpoint")
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded .env")
	}
	config.Get()

	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()
	if err := run(ctx, o); err != nil {
		log.Printf("Error booking: %s\n", err.Error())
		os.Exit(1)
	}
}

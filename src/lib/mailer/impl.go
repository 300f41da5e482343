package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path"

	"travl/src/lib"
	"travl/src/types"

	"github.com/yeqown/go-qrcode"
)

var bookingTemplates = template.Must(template.New("confirmed").Parse(`<h2>Your trip to {{.Destination.Name}} is confirmed</h2>
<p>Booking reference: <strong>{{.ID}}</strong></p>
<p>{{.Checkin}} to {{.Checkout}}, {{.Travelers}} traveler(s)</p>
<p>Total paid: ${{printf "%.2f" .TotalPrice}}</p>
<p>Show the attached code at check-in.</p>`))

func init() {
	template.Must(bookingTemplates.New("cancelled").Parse(`<h2>Your booking {{.ID}} has been cancelled</h2>
<p>{{.Destination.Name}}, {{.Checkin}} to {{.Checkout}}</p>
<p>Any refund will be returned to the original payment method.</p>`))
	template.Must(bookingTemplates.New("reminder").Parse(`<h2>Check-in today at {{.Destination.Name}}</h2>
<p>Booking reference: <strong>{{.ID}}</strong></p>
<p>Check-out on {{.Checkout}}. Have a great stay!</p>`))
}

// BookingQRCode renders the booking reference as a JPEG QR code.
func BookingQRCode(bookingID string) ([]byte, error) {
	qrc, err := qrcode.New(bookingID)
	if err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "travl-qr")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	filepath := path.Join(dir, fmt.Sprintf("%s.jpeg", bookingID))
	if err = qrc.Save(filepath); err != nil {
		log.Printf("Could not save qrcode to file [%s]: %s\n", filepath, err.Error())
		return nil, err
	}
	return os.ReadFile(filepath)
}

func render(name string, b *types.BookingRecord) (string, error) {
	var buf bytes.Buffer
	if err := bookingTemplates.ExecuteTemplate(&buf, name, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func recipients(b *types.BookingRecord) []string {
	if len(b.Guests) == 0 {
		return nil
	}
	return []string{b.Guests[0].Email}
}

func BookingConfirmedMail(from string, b *types.BookingRecord) (*lib.SendMailInput, error) {
	body, err := render("confirmed", b)
	if err != nil {
		return nil, err
	}
	qr, err := BookingQRCode(b.ID)
	if err != nil {
		return nil, err
	}
	return &lib.SendMailInput{
		From:        from,
		FromName:    "Travl",
		To:          recipients(b),
		Subject:     fmt.Sprintf("Booking confirmed: %s", b.ID),
		Body:        body,
		Html:        true,
		Attachments: []lib.Attachment{{Name: fmt.Sprintf("%s.jpeg", b.ID), Content: qr}},
	}, nil
}

func BookingCancelledMail(from string, b *types.BookingRecord) (*lib.SendMailInput, error) {
	body, err := render("cancelled", b)
	if err != nil {
		return nil, err
	}
	return &lib.SendMailInput{
		From:     from,
		FromName: "Travl",
		To:       recipients(b),
		Subject:  fmt.Sprintf("Booking cancelled: %s", b.ID),
		Body:     body,
		Html:     true,
	}, nil
}

func CheckinReminderMail(from string, b *types.BookingRecord) (*lib.SendMailInput, error) {
	body, err := render("reminder", b)
	if err != nil {
		return nil, err
	}
	return &lib.SendMailInput{
		From:     from,
		FromName: "Travl",
		To:       recipients(b),
		Subject:  fmt.Sprintf("Check-in today: %s", b.Destination.Name),
		Body:     body,
		Html:     true,
	}, nil
}

// MailForEvent builds the message a booking event should trigger.
func MailForEvent(from string, event *types.BookingEvent) (*lib.SendMailInput, error) {
	switch event.Type {
	case types.EVENT_BOOKING_CREATED:
		return BookingConfirmedMail(from, &event.Booking)
	case types.EVENT_BOOKING_CANCELLED:
		return BookingCancelledMail(from, &event.Booking)
	}
	return nil, fmt.Errorf("no mail for event type %s", event.Type)
}

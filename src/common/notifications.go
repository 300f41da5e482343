package common

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"travl/src/lib"
	"travl/src/lib/mailer"
	"travl/src/types"

	"github.com/tidwall/gjson"
)

type MailSender func(input *lib.SendMailInput) error

// NewBookingMailHandler consumes booking events from the broker and mails the primary guest.
func NewBookingMailHandler(from string, send MailSender) types.Handler {
	return func(spayload string) {
		if !gjson.Valid(spayload) {
			log.Println("[BookingEvents] Received invalid json body. Aborting")
			return
		}
		eventType := gjson.Get(spayload, "type").String()
		bookingID := gjson.Get(spayload, "booking.id").String()
		log.Printf("[BookingEvents] %s for %s\n", eventType, bookingID)
		if !gjson.Get(spayload, "booking.guests.0.email").Exists() {
			log.Printf("[BookingEvents] %s has no guest to notify\n", bookingID)
			return
		}
		var event types.BookingEvent
		if err := json.Unmarshal([]byte(spayload), &event); err != nil {
			log.Printf("error deserializing json: %s\n", err.Error())
			return
		}
		input, err := mailer.MailForEvent(from, &event)
		if err != nil {
			log.Printf("[MAILER] %s\n", err.Error())
			return
		}
		if err := send(input); err != nil {
			log.Printf("[MAILER] error sending email: %s\n", err.Error())
			return
		}
		log.Printf("[MAILER]: an email has been sent to %s\n", input.To)
	}
}

// SendCheckinReminders mails every confirmed booking checking in on day and returns how many were sent.
func SendCheckinReminders(ctx context.Context, svc *BookingService, day time.Time, from string, send MailSender) (int, error) {
	bookings, err := svc.CheckingInOn(ctx, day)
	if err != nil {
		log.Printf("Error retrieving check-ins: %s\n", err.Error())
		return 0, err
	}
	sent := 0
	for _, b := range bookings {
		record := b.ToRecord()
		input, err := mailer.CheckinReminderMail(from, &record)
		if err != nil {
			log.Printf("[MAILER] %s\n", err.Error())
			continue
		}
		if err := send(input); err != nil {
			log.Printf("[MAILER] error sending reminder for %s: %s\n", b.ID, err.Error())
			continue
		}
		sent++
	}
	log.Printf("[Reminders] sent %d of %d\n", sent, len(bookings))
	return sent, nil
}

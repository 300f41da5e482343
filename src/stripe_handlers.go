package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"travl/src/common"
	"travl/src/lib"
	"travl/src/repository"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

func stripeWebhookRoute(g *gin.Engine, bookings *common.BookingService, whsecret string) {
	g.POST("/webhooks/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
			return
		}
		event, err := webhook.ConstructEventWithOptions(payload, ctx.GetHeader("Stripe-Signature"), whsecret, webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		lib.WebhookEventsTotal.WithLabelValues(string(event.Type)).Inc()
		switch event.Type {
		case "payment_intent.succeeded":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			log.Printf("[Stripe] Payment succeeded: %s (booking %s)\n", pi.ID, pi.Metadata["bookingId"])
		case "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			reason := "unknown"
			if pi.LastPaymentError != nil {
				reason = pi.LastPaymentError.Msg
			}
			log.Printf("[Stripe] Payment failed: %s (booking %s): %s\n", pi.ID, pi.Metadata["bookingId"], reason)
		case "charge.refunded":
			var ch stripe.Charge
			if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
				log.Printf("[Stripe] Error parsing Charge: %s\n", err.Error())
				break
			}
			if ch.PaymentIntent == nil {
				break
			}
			booking, err := bookings.CancelByTransaction(ctx, ch.PaymentIntent.ID)
			if errors.Is(err, repository.ErrNotFound) {
				log.Printf("[Stripe] No booking paid with %s\n", ch.PaymentIntent.ID)
				break
			}
			if err != nil {
				log.Printf("[Stripe] Error cancelling refunded booking: %s\n", err.Error())
				break
			}
			log.Printf("[Stripe] Booking %s cancelled after refund\n", booking.ID)
		default:
			log.Printf("[Stripe] Unhandled event type %s\n", event.Type)
		}
		ctx.JSON(http.StatusOK, gin.H{"received": true})
	})
}

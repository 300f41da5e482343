package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"travl/src/types"
)

const UserBookingsTTL = 2 * time.Minute

// BookingResult tells the caller which backend stored the booking.
type BookingResult struct {
	Booking types.BookingRecord
	// Degraded is set when the primary backend failed and the mock endpoint answered.
	Degraded   bool
	PrimaryErr error
}

func decode[T any](data []byte, check func(*T) error) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if check != nil {
		if err := check(&out); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func succeeded(r types.APIResponse) error {
	if !r.Success {
		if r.Error != "" {
			return fmt.Errorf("request failed: %s", r.Error)
		}
		return fmt.Errorf("request failed")
	}
	return nil
}

func bookingPayload(r *types.APIResponseBooking) error {
	if err := succeeded(r.APIResponse); err != nil {
		return err
	}
	if r.Booking == nil {
		return fmt.Errorf("response has no booking")
	}
	return nil
}

func post(body any) Options {
	return Options{Method: http.MethodPost, Body: body, NoCache: true}
}

// CreateBooking stores a booking, falling back to the mock endpoint when the primary backend fails.
func (c *Client) CreateBooking(ctx context.Context, req *types.CreateBookingRequestBody) (*BookingResult, error) {
	data, err := c.Call(ctx, "/api/bookings/create", post(req))
	if err == nil {
		var resp *types.APIResponseBooking
		if resp, err = decode(data, bookingPayload); err == nil {
			return &BookingResult{Booking: *resp.Booking}, nil
		}
	}
	log.Printf("[Client] booking backend failed, using mock endpoint: %s\n", err.Error())

	data, mockErr := c.call(ctx, c.mockURL, post(req))
	if mockErr == nil {
		var resp *types.APIResponseBooking
		if resp, mockErr = decode(data, bookingPayload); mockErr == nil {
			return &BookingResult{Booking: *resp.Booking, Degraded: true, PrimaryErr: err}, nil
		}
	}
	return nil, fmt.Errorf("%w: primary: %v; mock: %v", ErrBackendUnavailable, err, mockErr)
}

func (c *Client) GetBooking(ctx context.Context, bookingID string) (*types.BookingRecord, error) {
	data, err := c.Call(ctx, "/api/bookings/"+url.PathEscape(bookingID), Options{})
	if err != nil {
		return nil, err
	}
	resp, err := decode(data, bookingPayload)
	if err != nil {
		return nil, err
	}
	return resp.Booking, nil
}

func (c *Client) GetUserBookings(ctx context.Context, userID string) ([]types.BookingRecord, error) {
	data, err := c.Call(ctx, "/api/bookings/user/"+url.PathEscape(userID), Options{CacheTTL: UserBookingsTTL})
	if err != nil {
		return nil, err
	}
	resp, err := decode(data, func(r *types.APIResponseBookings) error { return succeeded(r.APIResponse) })
	if err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}

// CancelBooking cancels a booking and drops any cached copies of it.
func (c *Client) CancelBooking(ctx context.Context, bookingID string) (*types.BookingRecord, error) {
	data, err := c.Call(ctx, "/api/bookings/"+url.PathEscape(bookingID)+"/cancel", post(nil))
	if err != nil {
		return nil, err
	}
	resp, err := decode(data, bookingPayload)
	if err != nil {
		return nil, err
	}
	c.ClearCache(bookingID)
	c.ClearCache("/api/bookings/user/")
	return resp.Booking, nil
}

func (c *Client) CreatePaymentIntent(ctx context.Context, req types.CreatePaymentIntentRequestBody) (*types.APIResponsePaymentIntent, error) {
	data, err := c.Call(ctx, "/api/payments/create-payment-intent", post(req))
	if err != nil {
		return nil, err
	}
	return decode(data, func(r *types.APIResponsePaymentIntent) error { return succeeded(r.APIResponse) })
}

func (c *Client) CreateWalletOrder(ctx context.Context, req types.CreateWalletOrderRequestBody) (*types.APIResponseWalletOrder, error) {
	data, err := c.Call(ctx, "/api/payments/create-paypal-order", post(req))
	if err != nil {
		return nil, err
	}
	return decode(data, func(r *types.APIResponseWalletOrder) error { return succeeded(r.APIResponse) })
}

func (c *Client) CaptureWalletOrder(ctx context.Context, orderID string) (*types.APIResponseWalletCapture, error) {
	data, err := c.Call(ctx, "/api/payments/capture-paypal-order", post(types.CaptureWalletOrderRequestBody{OrderID: orderID}))
	if err != nil {
		return nil, err
	}
	return decode(data, func(r *types.APIResponseWalletCapture) error { return succeeded(r.APIResponse) })
}

func (c *Client) Refund(ctx context.Context, req types.RefundRequestBody) (*types.APIResponseRefund, error) {
	data, err := c.Call(ctx, "/api/payments/refund", post(req))
	if err != nil {
		return nil, err
	}
	return decode(data, func(r *types.APIResponseRefund) error { return succeeded(r.APIResponse) })
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"travl/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestCallCachesSuccessfulGet(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "n": hits.Load()})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	first, err := c.Call(ctx, "/api/thing", Options{})
	require.NoError(t, err)
	second, err := c.Call(ctx, "/api/thing", Options{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, hits.Load())

	_, err = c.Call(ctx, "/api/thing", Options{NoCache: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())

	_, _ = c.Call(ctx, "/api/thing", Options{Method: http.MethodPost, NoCache: false})
	_, _ = c.Call(ctx, "/api/thing", Options{Method: http.MethodPost, NoCache: false})
	assert.EqualValues(t, 4, hits.Load())
}

func TestCallCacheExpires(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	opts := Options{CacheTTL: 20 * time.Millisecond}
	_, err := c.Call(context.Background(), "/api/thing", opts)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = c.Call(context.Background(), "/api/thing", opts)
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
}

func TestConcurrentIdenticalCallsShareOneRequest(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "value": "shared"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	var wg sync.WaitGroup
	results := make([][]byte, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Call(context.Background(), "/api/bookings/TRV00000001", Options{})
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.EqualValues(t, 1, hits.Load())
	assert.Equal(t, "shared", gjson.GetBytes(results[0], "value").String())
	assert.Equal(t, results[0], results[1])
}

func TestHTTPErrorMessages(t *testing.T) {
	cases := map[int]string{
		400: "Invalid request. Please check your input.",
		401: "Please log in to continue.",
		403: "You do not have permission to perform this action.",
		404: "The requested resource was not found.",
		429: "Too many requests. Please try again later.",
		500: "Server error. Please try again later.",
		502: "Service temporarily unavailable.",
		503: "Service temporarily unavailable.",
		504: "Request timeout. Please try again.",
		418: "An unexpected error occurred.",
	}
	for status, msg := range cases {
		assert.Equal(t, msg, MessageForStatus(status), "status %d", status)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, types.APIResponse{Success: false, Error: "Booking not found"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).GetBooking(context.Background(), "TRV99999999")
	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusNotFound, herr.Status)
	assert.Equal(t, "The requested resource was not found.", herr.Message)
	assert.Equal(t, "Booking not found", herr.ServerError)
	assert.False(t, Retryable(err))
}

func TestRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, WithRateLimit(2))
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := c.Call(ctx, "/api/thing", Options{NoCache: true})
		require.NoError(t, err)
	}
	_, err := c.Call(ctx, "/api/thing", Options{NoCache: true})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.EqualError(t, err, "rate limit exceeded")
}

func TestBearerToken(t *testing.T) {
	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(func() string { return "abc" }))
	_, err := c.Call(context.Background(), "/api/thing", Options{NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", auth.Load())

	_, err = New(srv.URL).Call(context.Background(), "/api/thing", Options{NoCache: true})
	require.NoError(t, err)
	assert.Equal(t, "", auth.Load())
}

func TestCacheIsScopedToToken(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "auth": r.Header.Get("Authorization")})
	}))
	defer srv.Close()

	var current atomic.Value
	current.Store("alice")
	c := New(srv.URL, WithTokenSource(func() string { return current.Load().(string) }))
	ctx := context.Background()

	alice, err := c.Call(ctx, "/api/bookings/user/1", Options{})
	require.NoError(t, err)
	current.Store("bob")
	bob, err := c.Call(ctx, "/api/bookings/user/1", Options{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, hits.Load())
	assert.Equal(t, "Bearer alice", gjson.GetBytes(alice, "auth").String())
	assert.Equal(t, "Bearer bob", gjson.GetBytes(bob, "auth").String())

	again, err := c.Call(ctx, "/api/bookings/user/1", Options{})
	require.NoError(t, err)
	assert.Equal(t, bob, again)
	assert.EqualValues(t, 2, hits.Load())
}

func bookingServer(primaryStatus int, mockStatus int) *httptest.Server {
	record := types.BookingRecord{ID: "TRV00000001", Status: types.BOOKING_CONFIRMED, TotalPrice: 685}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/bookings/create", func(w http.ResponseWriter, r *http.Request) {
		if primaryStatus != http.StatusOK {
			writeJSON(w, primaryStatus, types.APIResponse{Success: false, Error: "boom"})
			return
		}
		writeJSON(w, http.StatusOK, types.APIResponseBooking{APIResponse: types.APIResponse{Success: true}, Booking: &record})
	})
	mux.HandleFunc("/api/bookings/mock", func(w http.ResponseWriter, r *http.Request) {
		if mockStatus != http.StatusOK {
			writeJSON(w, mockStatus, types.APIResponse{Success: false, Error: "boom"})
			return
		}
		mock := record
		mock.ID = "TRV00000002"
		writeJSON(w, http.StatusOK, types.APIResponseBooking{APIResponse: types.APIResponse{Success: true}, Booking: &mock, Mock: true})
	})
	return httptest.NewServer(mux)
}

func TestCreateBookingPrimary(t *testing.T) {
	srv := bookingServer(http.StatusOK, http.StatusOK)
	defer srv.Close()

	res, err := New(srv.URL).CreateBooking(context.Background(), &types.CreateBookingRequestBody{Travelers: 1})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.NoError(t, res.PrimaryErr)
	assert.Equal(t, "TRV00000001", res.Booking.ID)
}

func TestCreateBookingFallsBackToMock(t *testing.T) {
	srv := bookingServer(http.StatusInternalServerError, http.StatusOK)
	defer srv.Close()

	res, err := New(srv.URL).CreateBooking(context.Background(), &types.CreateBookingRequestBody{Travelers: 1})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, "TRV00000002", res.Booking.ID)
	var herr *HTTPError
	require.ErrorAs(t, res.PrimaryErr, &herr)
	assert.Equal(t, http.StatusInternalServerError, herr.Status)
}

func TestCreateBookingBothBackendsFail(t *testing.T) {
	srv := bookingServer(http.StatusInternalServerError, http.StatusServiceUnavailable)
	defer srv.Close()

	_, err := New(srv.URL).CreateBooking(context.Background(), &types.CreateBookingRequestBody{Travelers: 1})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestCreateBookingCustomMockURL(t *testing.T) {
	primary := bookingServer(http.StatusBadGateway, http.StatusBadGateway)
	defer primary.Close()
	fallback := bookingServer(http.StatusOK, http.StatusOK)
	defer fallback.Close()

	c := New(primary.URL, WithMockURL(fallback.URL+"/api/bookings/mock"))
	res, err := c.CreateBooking(context.Background(), &types.CreateBookingRequestBody{Travelers: 1})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
}

func TestClearCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()
	_, _ = c.Call(ctx, "/api/bookings/TRV00000001", Options{})
	_, _ = c.Call(ctx, "/api/bookings/TRV00000002", Options{})
	assert.EqualValues(t, 2, hits.Load())

	c.ClearCache("TRV00000001")
	_, _ = c.Call(ctx, "/api/bookings/TRV00000001", Options{})
	_, _ = c.Call(ctx, "/api/bookings/TRV00000002", Options{})
	assert.EqualValues(t, 3, hits.Load())

	c.ClearCache("")
	_, _ = c.Call(ctx, "/api/bookings/TRV00000002", Options{})
	assert.EqualValues(t, 4, hits.Load())
}

func TestRetry(t *testing.T) {
	c := New("http://unused", WithRetryBaseDelay(time.Millisecond))
	ctx := context.Background()

	attempts := 0
	err := c.Retry(ctx, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &HTTPError{Status: http.StatusServiceUnavailable}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	err = c.Retry(ctx, func(ctx context.Context) error {
		attempts++
		return &HTTPError{Status: http.StatusBadRequest}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)

	attempts = 0
	err = c.Retry(ctx, func(ctx context.Context) error {
		attempts++
		return &HTTPError{Status: http.StatusGatewayTimeout}
	})
	var herr *HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusGatewayTimeout, herr.Status)
	assert.Equal(t, 1+MaxRetries, attempts)
}

func TestBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/fail" {
			writeJSON(w, http.StatusInternalServerError, types.APIResponse{})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"path": r.URL.Path})
	}))
	defer srv.Close()

	c := New(srv.URL)
	reqs := make([]BatchRequest, 3)
	for i := range reqs {
		reqs[i] = BatchRequest{Endpoint: fmt.Sprintf("/api/item/%d", i)}
	}
	out, err := c.Batch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, out, 3)
	for i, b := range out {
		assert.Equal(t, fmt.Sprintf("/api/item/%d", i), gjson.GetBytes(b, "path").String())
	}

	_, err = c.Batch(context.Background(), append(reqs, BatchRequest{Endpoint: "/api/fail"}))
	assert.Error(t, err)
}

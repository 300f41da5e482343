package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBackendUnavailable means neither the booking backend nor the mock endpoint answered.
	ErrBackendUnavailable = errors.New("booking backend unavailable")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request. Please check your input.",
	http.StatusUnauthorized:        "Please log in to continue.",
	http.StatusForbidden:           "You do not have permission to perform this action.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusTooManyRequests:     "Too many requests. Please try again later.",
	http.StatusInternalServerError: "Server error. Please try again later.",
	http.StatusBadGateway:          "Service temporarily unavailable.",
	http.StatusServiceUnavailable:  "Service temporarily unavailable.",
	http.StatusGatewayTimeout:      "Request timeout. Please try again.",
}

var retryStatuses = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

func MessageForStatus(status int) string {
	if m, ok := statusMessages[status]; ok {
		return m
	}
	return "An unexpected error occurred."
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Status  int
	Message string
	// ServerError is the "error" field of the response body, when present.
	ServerError string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Retryable reports whether err is an HTTP failure worth retrying.
func Retryable(err error) bool {
	var herr *HTTPError
	return errors.As(err, &herr) && retryStatuses[herr.Status]
}

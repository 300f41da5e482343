package utils

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MonotonicClock hands out millisecond timestamps that strictly increase within the process.
type MonotonicClock struct {
	mu   sync.Mutex
	last int64
	Now  func() time.Time
}

func (c *MonotonicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	ms := now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return ms
}

// BookingID formats "TRV" followed by the last 8 digits of ms.
func BookingID(ms int64) string {
	return fmt.Sprintf("TRV%08d", ms%100_000_000)
}

var (
	bookingClock MonotonicClock
	walletClock  MonotonicClock
)

func NewBookingID() string {
	return BookingID(bookingClock.Next())
}

func NewWalletOrderID() string {
	return "PAYPAL_" + strings.ToUpper(strconv.FormatInt(walletClock.Next(), 36))
}

func NewWalletTransactionID() string {
	return "TXN_" + strings.ToUpper(strconv.FormatInt(walletClock.Next(), 36))
}

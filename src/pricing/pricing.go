// Package pricing computes booking totals. All arithmetic happens in integer cents.
package pricing

import (
	"math"
	"time"
)

const (
	TaxRate         = 0.10
	ServiceFeeCents = int64(2500)
)

type Breakdown struct {
	Nights     int   `json:"nights"`
	BaseCents  int64 `json:"base"`
	TaxCents   int64 `json:"taxes"`
	FeeCents   int64 `json:"serviceFee"`
	TotalCents int64 `json:"total"`
}

// Nights counts started days between the two dates, regardless of order.
func Nights(checkin, checkout time.Time) int {
	diff := checkout.Sub(checkin)
	if diff < 0 {
		diff = -diff
	}
	day := 24 * time.Hour
	n := int(diff / day)
	if diff%day != 0 {
		n++
	}
	return n
}

func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

func Compute(nightlyPrice float64, nights int) Breakdown {
	base := ToCents(nightlyPrice) * int64(nights)
	tax := int64(math.Round(float64(base) * TaxRate))
	return Breakdown{
		Nights:     nights,
		BaseCents:  base,
		TaxCents:   tax,
		FeeCents:   ServiceFeeCents,
		TotalCents: base + tax + ServiceFeeCents,
	}
}

// Total is nights × price plus tax and the flat service fee, in currency units.
func Total(nightlyPrice float64, checkin, checkout time.Time) float64 {
	return FromCents(Compute(nightlyPrice, Nights(checkin, checkout)).TotalCents)
}

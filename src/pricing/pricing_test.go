package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(date("2024-01-01"), date("2024-01-04")))
	assert.Equal(t, 3, Nights(date("2024-01-04"), date("2024-01-01")))
	assert.Equal(t, 0, Nights(date("2024-01-01"), date("2024-01-01")))
	assert.Equal(t, 1, Nights(date("2024-01-01"), date("2024-01-01").Add(2*time.Hour)))
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 355.00, Total(100, date("2024-01-01"), date("2024-01-04")))
	assert.Equal(t, 685.00, Total(200, date("2024-01-01"), date("2024-01-04")))
}

func TestCompute(t *testing.T) {
	b := Compute(299, 5)
	assert.Equal(t, int64(149500), b.BaseCents)
	assert.Equal(t, int64(14950), b.TaxCents)
	assert.Equal(t, ServiceFeeCents, b.FeeCents)
	assert.Equal(t, int64(166950), b.TotalCents)
	assert.Equal(t, 1669.50, FromCents(b.TotalCents))
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(38785), ToCents(387.85))
	assert.Equal(t, int64(0), ToCents(0))
}

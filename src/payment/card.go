package payment

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	InvalidCardNumber = "Invalid card number"
	InvalidExpiryDate = "Invalid expiry date"
	InvalidCVV        = "Invalid CVV"
)

type Card struct {
	Number string
	// Expiry is MM/YY.
	Expiry string
	CVV    string
	Holder string
}

var (
	digitsRegex = regexp.MustCompile(`^\d+$`)
	cvvRegex    = regexp.MustCompile(`^\d{3,4}$`)
)

var cardNetworks = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"visa", regexp.MustCompile(`^4`)},
	{"mastercard", regexp.MustCompile(`^5[1-5]`)},
	{"amex", regexp.MustCompile(`^3[47]`)},
	{"discover", regexp.MustCompile(`^6(?:011|5)`)},
	{"diners", regexp.MustCompile(`^3(?:0[0-5]|[68])`)},
	{"jcb", regexp.MustCompile(`^35`)},
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Luhn reports whether number passes the mod-10 checksum. Spaces are ignored.
func Luhn(number string) bool {
	clean := stripSpaces(number)
	if !digitsRegex.MatchString(clean) {
		return false
	}
	sum := 0
	double := false
	for i := len(clean) - 1; i >= 0; i-- {
		d := int(clean[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// ParseExpiry reads MM/YY into a month and a four digit year.
func ParseExpiry(expiry string) (month int, year int, ok bool) {
	mm, yy, found := strings.Cut(strings.TrimSpace(expiry), "/")
	if !found || len(yy) != 2 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(mm)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(yy)
	if err != nil || y < 0 {
		return 0, 0, false
	}
	return month, 2000 + y, true
}

// ValidExpiry accepts any card that has not expired before the month of now.
func ValidExpiry(expiry string, now time.Time) bool {
	month, year, ok := ParseExpiry(expiry)
	if !ok {
		return false
	}
	if year != now.Year() {
		return year > now.Year()
	}
	return time.Month(month) >= now.Month()
}

func ValidCVV(cvv string) bool {
	return cvvRegex.MatchString(cvv)
}

func ValidateCard(number, expiry, cvv string) []string {
	return ValidateCardAt(number, expiry, cvv, time.Now())
}

func ValidateCardAt(number, expiry, cvv string, now time.Time) []string {
	violations := make([]string, 0)
	if !Luhn(number) {
		violations = append(violations, InvalidCardNumber)
	}
	if !ValidExpiry(expiry, now) {
		violations = append(violations, InvalidExpiryDate)
	}
	if !ValidCVV(cvv) {
		violations = append(violations, InvalidCVV)
	}
	return violations
}

// CardType names the card network, or "unknown".
func CardType(number string) string {
	clean := stripSpaces(number)
	for _, n := range cardNetworks {
		if n.pattern.MatchString(clean) {
			return n.name
		}
	}
	return "unknown"
}

// FormatCardNumber keeps the digits of number and groups them by four.
func FormatCardNumber(number string) string {
	var b strings.Builder
	n := 0
	for _, r := range number {
		if r < '0' || r > '9' {
			continue
		}
		if n > 0 && n%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

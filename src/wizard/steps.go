package wizard

import (
	"fmt"
	"strings"
)

type Step int

const (
	Details Step = iota + 1
	Guests
	Payment
	Confirmation
)

var stepLabels = map[Step]string{
	Details:      "Details",
	Guests:       "Guests",
	Payment:      "Payment",
	Confirmation: "Confirmation",
}

func StepLabel(s Step) string {
	return stepLabels[s]
}

func (s Step) String() string {
	if l, ok := stepLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// ValidationError blocks leaving Step until Problems are fixed.
type ValidationError struct {
	Step     Step
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Please complete all required fields before proceeding: %s", strings.Join(e.Problems, "; "))
}

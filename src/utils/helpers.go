package utils

import (
	"errors"
	"strings"

	"travl/src/types"

	"github.com/gosimple/slug"
	"github.com/stripe/stripe-go/v82"
)

// ErrorMessage unwraps provider errors so clients see the provider's own message.
func ErrorMessage(err error) string {
	var serr *stripe.Error
	if errors.As(err, &serr) && serr.Msg != "" {
		return serr.Msg
	}
	return err.Error()
}

// NormalizeDestination fills a missing destination id with a slug of its name.
func NormalizeDestination(d types.Destination) types.Destination {
	d.Name = strings.TrimSpace(d.Name)
	if d.ID == "" {
		d.ID = slug.Make(d.Name)
	}
	return d
}

func IsProd(env string) bool {
	return env == "production"
}

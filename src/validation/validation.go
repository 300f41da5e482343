package validation

import (
	"log"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateFormat = "2006-01-02"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

var travelEmail validator.Func = func(fl validator.FieldLevel) bool {
	email, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return IsValidEmail(email)
}

// afterDate passes when the field is a date strictly after the date in the named sibling field.
var afterDate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(dateFormat, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	if !field.IsValid() {
		log.Printf("afterdate: unknown field %s\n", fl.Param())
		return false
	}
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(dateFormat, fieldValue)
	if err != nil {
		return false
	}
	return datetime.After(fielddatetime)
}

// Register installs the custom rules on v.
func Register(v *validator.Validate) {
	if err := v.RegisterValidation("travelemail", travelEmail); err != nil {
		log.Printf("Error registering travelemail: %s\n", err.Error())
	}
	if err := v.RegisterValidation("afterdate", afterDate); err != nil {
		log.Printf("Error registering afterdate: %s\n", err.Error())
	}
}

// New returns a validator reading the same `binding` tags gin uses.
func New() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	Register(v)
	return v
}

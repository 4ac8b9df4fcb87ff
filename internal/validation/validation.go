// Package validation turns model constraints into field-level error messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/go-playground/validator/v10"
)

const NonFieldErrors = "non_field_errors"

const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
	MsgNull     = "This field may not be null."
	MsgPhone    = "Phone Number must be entered in the format: '9999999999' or '999-999-9999'."
	MsgUsername = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgEmail    = "Enter a valid email address."
)

var (
	phonePattern    = regexp.MustCompile(`(\d{3})\D*(\d{4}|\d{3})\D*(\d{4}|\d{3})$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// Errors maps a wire field name to its messages.
type Errors map[string][]string

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e Errors) Merge(other Errors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// Err returns nil when there are no messages.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// A non-nil pointer to "" still reaches here; blank clears the number.
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsPhone(s)
	})
	mustRegister(v, "username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "country", func(fl validator.FieldLevel) bool {
		return models.IsCountry(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// IsPhone reports whether s looks like a phone number.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// Struct validates a model and returns nil when it is valid.
func Struct(s any) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{NonFieldErrors: {err.Error()}}
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MsgBlank
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "email":
		return MsgEmail
	case "phone":
		return MsgPhone
	case "username":
		return MsgUsername
	case "oneof", "country":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	default:
		return "Invalid value."
	}
}

// Package validation builds the field-level error maps returned on 400
// responses. Fields bound from JSON use pointer types so an omitted field is
// distinguishable from one supplied empty; the two cases report different
// messages.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRequired     = "This field is required."
	MsgBlank        = "This field may not be blank."
	MsgNumber       = "A valid number is required."
	MsgInteger      = "A valid integer is required."
	MsgNonNegative  = "Ensure this value is greater than or equal to 0."
	MsgZipCode      = "Zip code must be exactly 8 digits."
	MsgInvalidEmail = "Enter a valid email address."
)

// MsgInvalidChoice formats the rejection of a value outside a fixed
// enumeration.
func MsgInvalidChoice(value string) string {
	return fmt.Sprintf("%q is not a valid choice.", value)
}

var zipCodePattern = regexp.MustCompile(`^[0-9]{8}$`)

// Errors maps field names to their validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// notblank rejects strings that are present but empty or whitespace-only.
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// CheckString validates a single optional string field, appending messages
// for each violated rule. A nil value means the field was omitted.
func CheckString(errs Errors, field string, value *string, required bool, rules ...Rule) {
	if value == nil {
		if required {
			errs.Add(field, MsgRequired)
		}
		return
	}
	if strings.TrimSpace(*value) == "" {
		errs.Add(field, MsgBlank)
		return
	}
	for _, rule := range rules {
		rule(errs, field, *value)
	}
}

// Rule is a per-field validator applied only to non-blank values.
type Rule func(errs Errors, field, value string)

// Email validates the field as an email address via the validator engine.
func Email(errs Errors, field, value string) {
	if err := validate.Var(value, "email"); err != nil {
		errs.Add(field, MsgInvalidEmail)
	}
}

// StateChoice restricts the field to the given two-letter codes.
func StateChoice(choices []string) Rule {
	return func(errs Errors, field, value string) {
		if err := validate.Var(value, "oneof="+strings.Join(choices, " ")); err != nil {
			errs.Add(field, MsgInvalidChoice(value))
		}
	}
}

// ZipCode requires exactly eight digits.
func ZipCode(errs Errors, field, value string) {
	if !zipCodePattern.MatchString(value) {
		errs.Add(field, MsgZipCode)
	}
}

// MaxLen caps the field length.
func MaxLen(n int) Rule {
	return func(errs Errors, field, value string) {
		if err := validate.Var(value, fmt.Sprintf("max=%d", n)); err != nil {
			errs.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", n))
		}
	}
}

package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrMissingField is returned when a required text field is empty or only whitespace.
	ErrMissingField = errors.New("required field is empty")

	// ErrInvalidChoice is returned when an enumerated field holds a value outside its set.
	ErrInvalidChoice = errors.New("value is not one of the allowed choices")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must := func(err error) {
		if err != nil {
			panic("register validation: " + err.Error())
		}
	}
	must(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}))
	must(v.RegisterValidation("objective", func(fl validator.FieldLevel) bool {
		return Objective(fl.Field().String()).valid()
	}))
	must(v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		return Format(fl.Field().String()).valid()
	}))
	must(v.RegisterValidation("tone", func(fl validator.FieldLevel) bool {
		return Tone(fl.Field().String()).valid()
	}))
	return v
}

// fieldLabels maps struct fields to the names shown on the form.
var fieldLabels = map[string]string{
	"Objective": "Objective",
	"Topic":     "Topic",
	"Role":      "AI role",
	"Format":    "Output format",
	"Audience":  "Audience",
	"Tone":      "Tone",
}

// Validate checks req before any network call is made. Missing text fields
// take precedence over bad choices; both are reported with every offending
// field listed in form order.
func Validate(req Request) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	var missing, invalid []string
	for _, fe := range verrs {
		label := fieldLabels[fe.Field()]
		if fe.Tag() == "notblank" {
			missing = append(missing, label)
		} else {
			invalid = append(invalid, label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return fmt.Errorf("%w: %s", ErrInvalidChoice, strings.Join(invalid, ", "))
}

// Package pillar derives the Four Pillars (year, month, day, hour) of a
// birth moment.
//
// The month pillar depends on the year stem and the hour pillar on the day
// stem, so the four are always derived together by Calculate.
package pillar

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-saju/internal/daycount"
)

// ErrInvalidInput marks a birth moment rejected before any computation.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes one rejected field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Gender selects the fortune-cycle direction.
type Gender string

// Supported genders.
const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts the long names and the vCard single-letter codes.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	return "", &InputError{Field: "gender", Reason: fmt.Sprintf("must be one of: male female (got %q)", s)}
}

// Valid reports whether g is a supported gender.
func (g Gender) Valid() bool { return g == Male || g == Female }

// BirthMoment is the engine input. When IsLunar is set the date fields must
// already hold the solar-converted date; conversion is the caller's job.
type BirthMoment struct {
	Year    int    `json:"year" validate:"min=1,max=9999"`
	Month   int    `json:"month" validate:"min=1,max=12"`
	Day     int    `json:"day" validate:"min=1,max=31"`
	Hour    int    `json:"hour" validate:"min=0,max=23"`
	Minute  int    `json:"minute" validate:"min=0,max=59"`
	IsLunar bool   `json:"isLunar"`
	Gender  Gender `json:"gender,omitempty" validate:"omitempty,oneof=male female"`

	// DSTOverride forces (true) or suppresses (false) the summer-time
	// correction. Nil consults the historical table.
	DSTOverride *bool `json:"dstOverride,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks field ranges and calendar validity. Gender may be empty
// here; operations that need it (the fortune cycles) check it themselves.
func (m BirthMoment) Validate() error {
	if err := validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := make([]error, 0, len(verrs))
			for _, fe := range verrs {
				out = append(out, formatFieldError(fe))
			}
			return errors.Join(out...)
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !daycount.Valid(m.Year, m.Month, m.Day) {
		return &InputError{
			Field:  "day",
			Reason: fmt.Sprintf("%04d-%02d-%02d is not a calendar date", m.Year, m.Month, m.Day),
		}
	}
	return nil
}

// RequireGender validates the moment and additionally requires a gender.
func (m BirthMoment) RequireGender() error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !m.Gender.Valid() {
		return &InputError{Field: "gender", Reason: "must be one of: male female"}
	}
	return nil
}

func formatFieldError(e validator.FieldError) error {
	field := e.Field()
	switch e.Tag() {
	case "min":
		return &InputError{Field: field, Reason: fmt.Sprintf("must be at least %s", e.Param())}
	case "max":
		return &InputError{Field: field, Reason: fmt.Sprintf("must be at most %s", e.Param())}
	case "oneof":
		return &InputError{Field: field, Reason: fmt.Sprintf("must be one of: %s", e.Param())}
	default:
		return &InputError{Field: field, Reason: "is invalid"}
	}
}

package validation

import (
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// ErrInvalidValue is wrapped by every rule failure.
var ErrInvalidValue = errors.New("invalid value")

const (
	MinAddressLength = 11
	MaxRating        = 5
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}

// CheckPositive fails when number is below zero. Zero passes.
func CheckPositive[T ~int | ~int32 | ~int64 | ~float64](number T) error {
	if number < 0 {
		return invalid("number must be more than 0")
	}
	return nil
}

// CheckMaxInt fails when number is above max.
func CheckMaxInt[T ~int | ~int32 | ~int64](number, max T) error {
	if number > max {
		return invalid("ensure this value is less than or equal to %d", max)
	}
	return nil
}

// CheckRating fails when rating is above MaxRating. Combine with CheckPositive
// for the closed range.
func CheckRating(rating float64) error {
	if rating > MaxRating {
		return invalid("rating must be <= %d", MaxRating)
	}
	return nil
}

// CheckAddressLen is the rule for the legacy free-text address.
func CheckAddressLen(address string) error {
	if utf8.RuneCountInString(address) < MinAddressLength {
		return invalid("address must be longer than %d characters", MinAddressLength-1)
	}
	return nil
}

// CheckBody accepts an empty body, a single character or a non-negative
// integer written in ASCII digits.
func CheckBody(body string) error {
	if body == "" {
		return nil
	}
	if !isDigits(body) && utf8.RuneCountInString(body) > 1 {
		return invalid("body can only contain one letter")
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func CheckRequired(value string) error {
	if value == "" {
		return invalid("this field may not be blank")
	}
	return nil
}

func CheckMaxLen(value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalid("ensure this field has no more than %d characters", max)
	}
	return nil
}

// CheckDecimalPlaces fails when number carries more than places fractional digits.
func CheckDecimalPlaces(number float64, places int) error {
	scaled := number * math.Pow10(places)
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		return invalid("ensure that there are no more than %d decimal places", places)
	}
	return nil
}

// CheckTimeOfDay fails unless d falls within a single day.
func CheckTimeOfDay(d time.Duration) error {
	if d < 0 || d >= 24*time.Hour {
		return invalid("time must be within a single day")
	}
	return nil
}

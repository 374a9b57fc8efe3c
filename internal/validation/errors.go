package validation

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Errors collects every failed rule of one entity, keyed by field name.
type Errors map[string][]string

// Check records err under field unless it is nil.
func (e Errors) Check(field string, err error) {
	if err == nil {
		return
	}
	e.Add(field, strings.TrimPrefix(err.Error(), ErrInvalidValue.Error()+": "))
}

// Add records message under field, skipping exact duplicates.
func (e Errors) Add(field, message string) {
	if slices.Contains(e[field], message) {
		return
	}
	e[field] = append(e[field], message)
}

// Merge copies other into e. other may be nil or any error; non-validation
// errors are filed under "non_field_errors".
func (e Errors) Merge(other error) {
	if other == nil {
		return
	}
	var verr Errors
	if !errors.As(other, &verr) {
		e.Add("non_field_errors", other.Error())
		return
	}
	for field, msgs := range verr {
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
}

// Fill copies the fields of other that have not failed yet, so a field
// reported by a shape check keeps only that message.
func (e Errors) Fill(other error) {
	var verr Errors
	if !errors.As(other, &verr) {
		e.Merge(other)
		return
	}
	for field, msgs := range verr {
		if _, failed := e[field]; failed {
			continue
		}
		for _, msg := range msgs {
			e.Add(field, msg)
		}
	}
}

// FromMap adapts field -> message maps produced by struct tag validation.
func FromMap(m map[string]string) Errors {
	e := Errors{}
	for field, msg := range m {
		e.Add(field, msg)
	}
	return e
}

// Err returns nil when nothing failed, so callers can return it directly.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], ", ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error {
	return ErrInvalidValue
}

package usecase

import (
	"errors"
	"fmt"

	"cinephile/internal/data/repository"
	"cinephile/internal/validation"
	"cinephile/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidID          = errors.New("invalid id")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTicketTaken        = errors.New("ticket is already booked by another user")
)

func parseID(kind, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s id %q: %w", kind, raw, ErrInvalidID)
	}
	return id, nil
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

// storeError lifts repository errors into the service taxonomy.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repository.ErrReference):
		errs := validation.Errors{}
		errs.Add("non_field_errors", "referenced object does not exist")
		return errs
	case errors.Is(err, repository.ErrBadValue):
		errs := validation.Errors{}
		errs.Add("non_field_errors", "a value is out of range for its field")
		return errs
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// checkRequest runs the request shape rules, then the missing fields of a
// create (nil on update), then the entity rules. Each field reports the
// first stage that rejected it.
func checkRequest(req any, missing map[string]string, v interface{ Validate() error }) validation.Errors {
	errs := validation.FromMap(utils.ValidateStruct(req))
	errs.Fill(validation.FromMap(missing))
	errs.Fill(v.Validate())
	return errs
}

func objectMissing(errs validation.Errors, field string, id uuid.UUID) {
	errs.Add(field, fmt.Sprintf("invalid pk %q - object does not exist", id))
}

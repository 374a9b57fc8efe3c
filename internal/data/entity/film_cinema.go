package entity

import (
	"cinephile/internal/validation"

	"github.com/google/uuid"
)

// FilmCinema is a showing: one film playing at one cinema. The pair is unique.
type FilmCinema struct {
	Base
	CinemaID uuid.UUID `db:"cinema_id"`
	FilmID   uuid.UUID `db:"film_id"`
}

func (fc *FilmCinema) Validate() error {
	errs := validation.Errors{}

	if fc.CinemaID == uuid.Nil {
		errs.Add("cinema", "this field is required")
	}
	if fc.FilmID == uuid.Nil {
		errs.Add("film", "this field is required")
	}

	return errs.Err()
}

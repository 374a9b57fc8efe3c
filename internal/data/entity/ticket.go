package entity

import (
	"cinephile/internal/validation"

	"github.com/google/uuid"
)

const TicketPlaceMaxLength = 256

// Ticket belongs to exactly one showing. UserID is nil while the ticket is unclaimed.
type Ticket struct {
	Base
	Time         ShowTime   `db:"time"`
	Place        string     `db:"place"`
	FilmCinemaID uuid.UUID  `db:"film_cinema_id"`
	UserID       *uuid.UUID `db:"user_id"`
}

func (t *Ticket) Validate() error {
	errs := validation.Errors{}

	errs.Check("time", t.Time.Validate())
	errs.Check("place", validation.CheckRequired(t.Place))
	errs.Check("place", validation.CheckMaxLen(t.Place, TicketPlaceMaxLength))

	if t.FilmCinemaID == uuid.Nil {
		errs.Add("film_cinema", "this field is required")
	}

	return errs.Err()
}

func (t *Ticket) IsClaimed() bool {
	return t.UserID != nil
}

// IsClaimedBy reports whether userID currently owns the ticket.
func (t *Ticket) IsClaimedBy(userID uuid.UUID) bool {
	return t.UserID != nil && *t.UserID == userID
}

// TicketDetail is a ticket joined with its showing, used by pages.
type TicketDetail struct {
	Ticket
	FilmID     uuid.UUID `db:"film_id"`
	FilmName   string    `db:"film_name"`
	CinemaID   uuid.UUID `db:"cinema_id"`
	CinemaName string    `db:"cinema_name"`
}

package request

import (
	"cinephile/internal/data/entity"

	"github.com/google/uuid"
)

type TicketRequest struct {
	Time       *string          `json:"time" validate:"omitempty,showtime"`
	Place      *string          `json:"place"`
	FilmCinema *string          `json:"film_cinema" validate:"omitempty,uuid"`
	User       Nullable[string] `json:"user" validate:"omitempty,uuid"`
}

func (r *TicketRequest) Missing() map[string]string {
	return missing(map[string]bool{
		"time":        r.Time != nil,
		"place":       r.Place != nil,
		"film_cinema": r.FilmCinema != nil,
	})
}

func (r *TicketRequest) Apply(t *entity.Ticket) {
	if r.Time != nil {
		if parsed, err := entity.ParseShowTime(*r.Time); err == nil {
			t.Time = parsed
		}
	}
	setIf(&t.Place, r.Place)
	setUUIDIf(&t.FilmCinemaID, r.FilmCinema)
	switch {
	case !r.User.Set:
	case r.User.Value == nil:
		t.UserID = nil
	default:
		if id, err := uuid.Parse(*r.User.Value); err == nil {
			t.UserID = &id
		}
	}
}

// BookingRequest carries the ticket_id query parameter of the booking pages.
type BookingRequest struct {
	TicketID string `json:"ticket_id" validate:"required,uuid"`
}

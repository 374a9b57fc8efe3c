package response

import (
	"time"

	"cinephile/internal/data/entity"
)

type TicketResponse struct {
	ID         string    `json:"id"`
	Time       string    `json:"time"`
	Place      string    `json:"place"`
	FilmCinema string    `json:"film_cinema"`
	User       *string   `json:"user"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func TicketToResponse(t *entity.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:         t.ID.String(),
		Time:       t.Time.String(),
		Place:      t.Place,
		FilmCinema: t.FilmCinemaID.String(),
		UpdatedAt:  t.UpdatedAt,
	}
	if t.UserID != nil {
		owner := t.UserID.String()
		resp.User = &owner
	}
	return resp
}

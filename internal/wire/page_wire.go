package wire

import (
	"cinephile/internal/adaptor"
	"cinephile/internal/usecase"
	"cinephile/pkg/middleware"
	"cinephile/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePages(
	r chi.Router,
	page *adaptor.PageHandler,
	service *usecase.Service,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		// Pages read the session cookie; a stale cookie browses anonymously.
		r.Use(middleware.AuthenticatePage(service.Auth, config.Auth.CookieName, log))

		r.Get("/", page.Index)
		r.Get("/films/", page.Films)
		r.Get("/films/{id}/", page.FilmDetail)
		r.Get("/cinemas/", page.Cinemas)
		r.Get("/cinemas/{id}/", page.CinemaDetail)
		r.Get("/tickets/", page.BookedTickets)

		// Any method reaches the booking handlers; only POST changes state.
		r.HandleFunc("/book_tickets/", page.BookTicket)
		r.HandleFunc("/cancel_ticket/", page.CancelTicket)

		r.Get("/login/", page.Login)
		r.Post("/login/", page.Login)
		r.HandleFunc("/logout/", page.Logout)
		r.Get("/accounts/register/", page.Register)
		r.Post("/accounts/register/", page.Register)
		r.Get("/accounts/profile/", page.Profile)
	})
}

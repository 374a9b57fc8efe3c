package wire

import (
	"net/http"

	"cinephile/internal/adaptor"
	"cinephile/internal/policy"
	"cinephile/internal/usecase"
	"cinephile/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// resourceRoutes is the handler surface every REST resource exposes.
type resourceRoutes interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Retrieve(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

func wireAPI(r chi.Router, handler *adaptor.Handler, service *usecase.Service, log *zap.Logger) {
	r.Post("/api-token-auth/", handler.Auth.ObtainToken)

	r.Route("/rest", func(r chi.Router) {
		// Unknown tokens are rejected here, before any resource is looked up.
		r.Use(middleware.Authenticate(service.Auth, log))

		wireResource(r, "/address", handler.Address, policy.AdminManaged, log)
		wireResource(r, "/cinema", handler.Cinema, policy.AdminManaged, log)
		wireResource(r, "/film", handler.Film, policy.AdminManaged, log)
		wireResource(r, "/film_cinema", handler.FilmCinema, policy.AdminManaged, log)
		wireResource(r, "/ticket", handler.Ticket, policy.Tickets, log)
		wireResource(r, "/user", handler.User, policy.Users, log)
	})
}

// wireResource mounts the collection and item routes of one resource, each
// guarded by the tier its rule table assigns to the action.
func wireResource(r chi.Router, path string, h resourceRoutes, rules policy.Rules, log *zap.Logger) {
	guard := func(action policy.Action) func(http.Handler) http.Handler {
		return middleware.Authorize(rules, action, log)
	}

	r.Route(path, func(r chi.Router) {
		r.With(guard(policy.ActionList)).Get("/", h.List)
		r.With(guard(policy.ActionCreate)).Post("/", h.Create)

		r.With(guard(policy.ActionRetrieve)).Get("/{id}/", h.Retrieve)
		r.With(guard(policy.ActionUpdate)).Put("/{id}/", h.Update)
		r.With(guard(policy.ActionUpdate)).Patch("/{id}/", h.Update)
		r.With(guard(policy.ActionDelete)).Delete("/{id}/", h.Delete)
	})
}

package adaptor

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"cinephile/internal/dto/request"
	"cinephile/internal/policy"
	"cinephile/internal/usecase"
	"cinephile/internal/validation"
	"cinephile/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex         = "index"
	pageFilms         = "films"
	pageCinemas       = "cinemas"
	pageFilmDetail    = "film_detail"
	pageCinemaDetail  = "cinema_detail"
	pageBookedTickets = "booked_tickets"
	pageProfile       = "profile"
	pageRegister      = "register"
	pageLogin         = "login"

	bookingFailed  = "Something went wrong..."
	profileURL     = "/accounts/profile/"
	pageListLength = 50
)

// PageHandler serves the HTML pages and the booking endpoints.
type PageHandler struct {
	catalog   usecase.CatalogService
	booking   usecase.BookingService
	auth      usecase.AuthService
	users     usecase.UserService
	config    utils.AuthConfig
	templates map[string]*template.Template
	log       *zap.Logger
}

func NewPageHandler(service *usecase.Service, config utils.AuthConfig, log *zap.Logger) *PageHandler {
	return &PageHandler{
		catalog:   service.Catalog,
		booking:   service.Booking,
		auth:      service.Auth,
		users:     service.User,
		config:    config,
		templates: parseTemplates(),
		log:       log.With(zap.String("handler", "page")),
	}
}

var pageFuncs = template.FuncMap{
	"add1": func(n int) int { return n + 1 },
	"sub1": func(n int) int { return n - 1 },
}

func parseTemplates() map[string]*template.Template {
	names := []string{
		pageIndex, pageFilms, pageCinemas, pageFilmDetail, pageCinemaDetail,
		pageBookedTickets, pageProfile, pageRegister, pageLogin,
	}

	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(pageFuncs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html"))
	}
	return out
}

// render writes a page with the current principal available as .User.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["User"] = utils.GetPrincipalFromContext(r.Context())
	data["LoginURL"] = h.config.LoginURL

	var buf bytes.Buffer
	if err := h.templates[name].ExecuteTemplate(&buf, "base", data); err != nil {
		h.log.Error("Failed to render page", zap.Error(err), zap.String("page", name))
		utils.ResponseText(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (h *PageHandler) renderError(w http.ResponseWriter, err error, page string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		utils.ResponseText(w, http.StatusNotFound, "Not found")
	case errors.Is(err, usecase.ErrInvalidID):
		utils.ResponseText(w, http.StatusBadRequest, "Bad request")
	default:
		h.log.Error("Failed to load page", zap.Error(err), zap.String("page", page))
		utils.ResponseText(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *PageHandler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := h.config.LoginURL + "?next=" + url.QueryEscape(r.URL.RequestURI())
	http.Redirect(w, r, target, http.StatusFound)
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageIndex, nil)
}

// Films handles GET /films/
func (h *PageHandler) Films(w http.ResponseWriter, r *http.Request) {
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)
	films, err := h.catalog.Films(r.Context(), pageListLength, utils.CalculateOffset(page, pageListLength))
	if err != nil {
		h.renderError(w, err, pageFilms)
		return
	}
	h.render(w, r, http.StatusOK, pageFilms, map[string]any{"Films": films, "Page": page})
}

// Cinemas handles GET /cinemas/
func (h *PageHandler) Cinemas(w http.ResponseWriter, r *http.Request) {
	page := utils.ParseInt(r.URL.Query().Get("page"), 1)
	cinemas, err := h.catalog.Cinemas(r.Context(), pageListLength, utils.CalculateOffset(page, pageListLength))
	if err != nil {
		h.renderError(w, err, pageCinemas)
		return
	}
	h.render(w, r, http.StatusOK, pageCinemas, map[string]any{"Cinemas": cinemas, "Page": page})
}

// FilmDetail handles GET /films/{id}/
func (h *PageHandler) FilmDetail(w http.ResponseWriter, r *http.Request) {
	film, err := h.catalog.Film(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err, pageFilmDetail)
		return
	}
	h.render(w, r, http.StatusOK, pageFilmDetail, map[string]any{"Film": film.Film, "Tickets": film.Tickets})
}

// CinemaDetail handles GET /cinemas/{id}/
func (h *PageHandler) CinemaDetail(w http.ResponseWriter, r *http.Request) {
	cinema, err := h.catalog.Cinema(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, err, pageCinemaDetail)
		return
	}
	h.render(w, r, http.StatusOK, pageCinemaDetail, map[string]any{
		"Cinema":  cinema.Cinema,
		"Address": cinema.Address,
		"Tickets": cinema.Tickets,
	})
}

// BookedTickets handles GET /tickets/
func (h *PageHandler) BookedTickets(w http.ResponseWriter, r *http.Request) {
	principal := utils.GetPrincipalFromContext(r.Context())
	if principal == nil {
		h.redirectToLogin(w, r)
		return
	}
	h.renderBookedTickets(w, r, principal)
}

func (h *PageHandler) renderBookedTickets(w http.ResponseWriter, r *http.Request, principal *policy.Principal) {
	tickets, err := h.catalog.BookedTickets(r.Context(), principal.UserID)
	if err != nil {
		h.renderError(w, err, pageBookedTickets)
		return
	}
	h.render(w, r, http.StatusOK, pageBookedTickets, map[string]any{"Tickets": tickets})
}

// BookTicket handles /book_tickets/?ticket_id=
func (h *PageHandler) BookTicket(w http.ResponseWriter, r *http.Request) {
	h.changeTicket(w, r, h.booking.Book, "book ticket")
}

// CancelTicket handles /cancel_ticket/?ticket_id=
func (h *PageHandler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	h.changeTicket(w, r, h.booking.Cancel, "cancel ticket")
}

type ticketTransition func(ctx context.Context, principal *policy.Principal, ticketID string) error

// changeTicket applies a booking transition. Only POST changes state; any
// other method gets the generic message with 200.
func (h *PageHandler) changeTicket(w http.ResponseWriter, r *http.Request, transition ticketTransition, operation string) {
	if r.Method != http.MethodPost {
		utils.ResponseText(w, http.StatusOK, bookingFailed)
		return
	}

	principal := utils.GetPrincipalFromContext(r.Context())
	if principal == nil {
		h.redirectToLogin(w, r)
		return
	}

	ticketID := r.URL.Query().Get("ticket_id")
	if errs := utils.ValidateStruct(request.BookingRequest{TicketID: ticketID}); errs != nil {
		utils.ResponseText(w, http.StatusBadRequest, bookingFailed)
		return
	}

	if err := transition(r.Context(), principal, ticketID); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, usecase.ErrInvalidID), errors.Is(err, usecase.ErrTicketTaken):
			status = http.StatusBadRequest
		case errors.Is(err, policy.ErrAuthorizationDenied):
			status = http.StatusForbidden
		default:
			h.log.Error("Failed to "+operation, zap.Error(err), zap.String("ticket_id", ticketID))
		}
		utils.ResponseText(w, status, bookingFailed)
		return
	}

	h.renderBookedTickets(w, r, principal)
}

// Profile handles GET /accounts/profile/
func (h *PageHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal := utils.GetPrincipalFromContext(r.Context())
	if principal == nil {
		h.redirectToLogin(w, r)
		return
	}

	user, err := h.catalog.Profile(r.Context(), principal.UserID)
	if err != nil {
		h.renderError(w, err, pageProfile)
		return
	}
	token, _ := utils.GetTokenFromContext(r.Context())
	h.render(w, r, http.StatusOK, pageProfile, map[string]any{"Profile": user, "Token": token})
}

// Register handles GET and POST /accounts/register/
func (h *PageHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, pageRegister, nil)
		return
	}

	if err := r.ParseForm(); err != nil {
		utils.ResponseText(w, http.StatusBadRequest, "Bad request")
		return
	}
	req := &request.RegisterRequest{
		Username:        r.PostFormValue("username"),
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password1"),
		PasswordConfirm: r.PostFormValue("password2"),
	}

	if _, err := h.users.Register(r.Context(), req); err != nil {
		var verr validation.Errors
		if !errors.As(err, &verr) {
			h.renderError(w, err, pageRegister)
			return
		}
		h.render(w, r, http.StatusOK, pageRegister, map[string]any{"Errors": verr, "Form": req})
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// Login handles GET and POST /login/. A successful POST stores the API token
// in the session cookie.
func (h *PageHandler) Login(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if r.Method != http.MethodPost {
		h.render(w, r, http.StatusOK, pageLogin, map[string]any{"Next": next})
		return
	}

	req, err := decodeLogin(r)
	if err != nil {
		utils.ResponseText(w, http.StatusBadRequest, "Bad request")
		return
	}
	if formNext := r.PostFormValue("next"); formNext != "" {
		next = safeNext(formNext)
	}

	token, err := h.auth.ObtainToken(r.Context(), req)
	if err != nil {
		var verr validation.Errors
		if !errors.As(err, &verr) && !errors.Is(err, usecase.ErrInvalidCredentials) {
			h.renderError(w, err, pageLogin)
			return
		}
		h.render(w, r, http.StatusOK, pageLogin, map[string]any{
			"Next":     next,
			"Username": req.Username,
			"Error":    "Please enter a correct username and password.",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    token.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, next, http.StatusFound)
}

// Logout handles /logout/
func (h *PageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// safeNext keeps redirects on this site. Browsers treat a backslash as a
// slash, so any backslash is refused.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return profileURL
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return profileURL
	}
	return next
}

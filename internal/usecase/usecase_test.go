package usecase

import (
	"context"
	"errors"
	"testing"

	"cinephile/internal/data/repository"
	"cinephile/internal/data/repository/memory"
	"cinephile/internal/dto/request"
	"cinephile/internal/policy"
	"cinephile/internal/validation"
	"cinephile/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T { return &v }

type env struct {
	t    *testing.T
	ctx  context.Context
	repo *repository.Repository
	svc  *Service
}

func newEnv(t *testing.T, mode string) *env {
	t.Helper()
	cfg := utils.DefaultConfig()
	cfg.Booking.Mode = mode
	repo := memory.NewRepository()
	return &env{
		t:    t,
		ctx:  context.Background(),
		repo: repo,
		svc:  NewService(repo, cfg, zap.NewNop()),
	}
}

func (e *env) register(username string) *policy.Principal {
	e.t.Helper()
	user, err := e.svc.User.Create(e.ctx, &request.UserRequest{
		Username: ptr(username),
		Password: ptr("correct-horse"),
	})
	if err != nil {
		e.t.Fatalf("register %s: %v", username, err)
	}
	return &policy.Principal{UserID: uuid.MustParse(user.ID), Username: username}
}

// showing creates an address, cinema, film, showing and one ticket and
// returns the ids.
func (e *env) showing() (cinemaID, filmID, ticketID string) {
	e.t.Helper()
	address, err := e.svc.Address.Create(e.ctx, &request.AddressRequest{
		CityName:    ptr("Moscow"),
		StreetName:  ptr("Tverskaya"),
		HouseNumber: ptr(7),
	})
	if err != nil {
		e.t.Fatalf("create address: %v", err)
	}
	cinema, err := e.svc.Cinema.Create(e.ctx, &request.CinemaRequest{Name: ptr("Pioner"), Address: &address.ID})
	if err != nil {
		e.t.Fatalf("create cinema: %v", err)
	}
	film, err := e.svc.Film.Create(e.ctx, &request.FilmRequest{
		Name:        ptr("Stalker"),
		Description: ptr("zone"),
		Rating:      ptr(4.9),
	})
	if err != nil {
		e.t.Fatalf("create film: %v", err)
	}
	fc, err := e.svc.FilmCinema.Create(e.ctx, &request.FilmCinemaRequest{Cinema: &cinema.ID, Film: &film.ID})
	if err != nil {
		e.t.Fatalf("create film cinema: %v", err)
	}
	ticket, err := e.svc.Ticket.Create(e.ctx, &request.TicketRequest{
		Time:       ptr("18:00"),
		Place:      ptr("Row 3, seat 12"),
		FilmCinema: &fc.ID,
	})
	if err != nil {
		e.t.Fatalf("create ticket: %v", err)
	}
	return cinema.ID, film.ID, ticket.ID
}

func (e *env) owner(ticketID string) *string {
	e.t.Helper()
	ticket, err := e.svc.Ticket.Get(e.ctx, ticketID)
	if err != nil {
		e.t.Fatalf("get ticket: %v", err)
	}
	return ticket.User
}

func TestBookLastWriteWins(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	alice, bob := e.register("alice"), e.register("bob")
	_, _, ticketID := e.showing()

	if err := e.svc.Booking.Book(e.ctx, alice, ticketID); err != nil {
		t.Fatalf("alice book: %v", err)
	}
	if err := e.svc.Booking.Book(e.ctx, bob, ticketID); err != nil {
		t.Fatalf("bob book: %v", err)
	}
	if got := e.owner(ticketID); got == nil || *got != bob.UserID.String() {
		t.Fatalf("owner = %v, want bob", got)
	}

	// any authenticated caller may cancel
	if err := e.svc.Booking.Cancel(e.ctx, alice, ticketID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := e.owner(ticketID); got != nil {
		t.Fatalf("owner after cancel = %v, want none", *got)
	}
}

func TestBookRequiresAuthentication(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	_, _, ticketID := e.showing()

	err := e.svc.Booking.Book(e.ctx, nil, ticketID)
	if !errors.Is(err, policy.ErrAuthenticationRequired) {
		t.Fatalf("anonymous book: got %v", err)
	}
	if got := e.owner(ticketID); got != nil {
		t.Fatalf("ticket changed by anonymous caller")
	}
}

func TestBookUnknownTicket(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	alice := e.register("alice")

	if err := e.svc.Booking.Book(e.ctx, alice, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing ticket: got %v, want ErrNotFound", err)
	}
	if err := e.svc.Booking.Book(e.ctx, alice, "42"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("malformed id: got %v, want ErrInvalidID", err)
	}
}

func TestClaimIfFreeMode(t *testing.T) {
	e := newEnv(t, utils.BookingModeClaimIfFree)
	alice, bob := e.register("alice"), e.register("bob")
	_, _, ticketID := e.showing()

	if err := e.svc.Booking.Book(e.ctx, alice, ticketID); err != nil {
		t.Fatalf("alice book: %v", err)
	}
	if err := e.svc.Booking.Book(e.ctx, alice, ticketID); err != nil {
		t.Fatalf("rebooking own ticket should succeed: %v", err)
	}
	if err := e.svc.Booking.Book(e.ctx, bob, ticketID); !errors.Is(err, ErrTicketTaken) {
		t.Fatalf("bob book: got %v, want ErrTicketTaken", err)
	}
	if err := e.svc.Booking.Cancel(e.ctx, bob, ticketID); !errors.Is(err, policy.ErrAuthorizationDenied) {
		t.Fatalf("bob cancel: got %v, want ErrAuthorizationDenied", err)
	}

	admin := &policy.Principal{UserID: bob.UserID, IsAdmin: true}
	if err := e.svc.Booking.Cancel(e.ctx, admin, ticketID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if got := e.owner(ticketID); got != nil {
		t.Fatalf("owner after admin cancel = %v", *got)
	}
}

func TestTokenIsStablePerUser(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	alice := e.register("alice")

	login := &request.LoginRequest{Username: "alice", Password: "correct-horse"}
	first, err := e.svc.Auth.ObtainToken(e.ctx, login)
	if err != nil {
		t.Fatalf("obtain token: %v", err)
	}
	second, err := e.svc.Auth.ObtainToken(e.ctx, login)
	if err != nil {
		t.Fatalf("obtain token again: %v", err)
	}
	if first.Token != second.Token || len(first.Token) != 40 {
		t.Fatalf("tokens differ or malformed: %q %q", first.Token, second.Token)
	}

	p, err := e.svc.Auth.Authenticate(e.ctx, first.Token)
	if err != nil || p.UserID != alice.UserID {
		t.Fatalf("authenticate: %v %v", p, err)
	}
	if _, err := e.svc.Auth.Authenticate(e.ctx, "nope"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("unknown key: got %v", err)
	}

	login.Password = "wrong"
	if _, err := e.svc.Auth.ObtainToken(e.ctx, login); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
}

func TestCreateUserRejectsDuplicateAndWeakPassword(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	e.register("alice")

	_, err := e.svc.User.Create(e.ctx, &request.UserRequest{Username: ptr("alice"), Password: ptr("short")})
	var verr validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(verr["username"]) == 0 || len(verr["password"]) != 1 {
		t.Fatalf("expected username and password errors, got %v", verr)
	}
}

func TestRegisterChecksConfirmation(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)

	_, err := e.svc.User.Register(e.ctx, &request.RegisterRequest{
		Username:        "carol",
		FirstName:       "Carol",
		LastName:        "King",
		Email:           "carol@example.com",
		Password:        "long-enough",
		PasswordConfirm: "different",
	})
	var verr validation.Errors
	if !errors.As(err, &verr) || len(verr["password2"]) == 0 {
		t.Fatalf("expected password2 mismatch, got %v", err)
	}
	if _, ok := verr["password"]; ok {
		t.Fatalf("valid password must not be reported: %v", verr)
	}
}

func TestFilmValidationAggregates(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)

	_, err := e.svc.Film.Create(e.ctx, &request.FilmRequest{
		Name:        ptr(""),
		Description: ptr("d"),
		Rating:      ptr(7.25),
	})
	var verr validation.Errors
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(verr["name"]) == 0 || len(verr["rating"]) < 2 {
		t.Fatalf("expected name and two rating errors, got %v", verr)
	}
	if total, _ := e.repo.Film.CountAll(e.ctx); total != 0 {
		t.Fatalf("invalid film must not be stored")
	}
}

func TestCinemaWithUnknownAddress(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)

	_, err := e.svc.Cinema.Create(e.ctx, &request.CinemaRequest{Name: ptr("Ghost"), Address: ptr(uuid.NewString())})
	var verr validation.Errors
	if !errors.As(err, &verr) || len(verr["address"]) != 1 {
		t.Fatalf("expected address error, got %v", err)
	}

	_, err = e.svc.Cinema.Create(e.ctx, &request.CinemaRequest{Name: ptr("Ghost"), Address: ptr("not-a-uuid")})
	if !errors.As(err, &verr) || len(verr["address"]) != 1 {
		t.Fatalf("malformed address should report one message, got %v", err)
	}
}

func TestDuplicateShowingConflicts(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	cinemaID, filmID, _ := e.showing()

	_, err := e.svc.FilmCinema.Create(e.ctx, &request.FilmCinemaRequest{Cinema: &cinemaID, Film: &filmID})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
}

func TestPartialUpdateKeepsOtherFields(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	_, filmID, _ := e.showing()

	film, err := e.svc.Film.Update(e.ctx, filmID, &request.FilmRequest{Rating: ptr(3.5)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if film.Rating != 3.5 || film.Name != "Stalker" {
		t.Fatalf("unexpected film after patch: %+v", film)
	}

	if _, err := e.svc.Film.Update(e.ctx, filmID, &request.FilmRequest{Rating: ptr(-1.0)}); err == nil {
		t.Fatalf("invalid update should fail")
	}
	if got, _ := e.svc.Film.Get(e.ctx, filmID); got.Rating != 3.5 {
		t.Fatalf("failed update must not write, rating = %v", got.Rating)
	}
}

func TestDeleteCinemaCascadesAndUserDeleteFreesTickets(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	alice := e.register("alice")
	cinemaID, filmID, ticketID := e.showing()

	if err := e.svc.Booking.Book(e.ctx, alice, ticketID); err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := e.svc.User.Delete(e.ctx, alice.UserID.String()); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if got := e.owner(ticketID); got != nil {
		t.Fatalf("ticket should be unclaimed after owner deletion")
	}

	if err := e.svc.Cinema.Delete(e.ctx, cinemaID); err != nil {
		t.Fatalf("delete cinema: %v", err)
	}
	if _, err := e.svc.Ticket.Get(e.ctx, ticketID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ticket should cascade with cinema, got %v", err)
	}
	if _, err := e.svc.Film.Get(e.ctx, filmID); err != nil {
		t.Fatalf("film should survive: %v", err)
	}
	if err := e.svc.Cinema.Delete(e.ctx, cinemaID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestCatalogPages(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	alice := e.register("alice")
	cinemaID, filmID, ticketID := e.showing()

	page, err := e.svc.Catalog.Film(e.ctx, filmID)
	if err != nil || len(page.Tickets) != 1 {
		t.Fatalf("film page: %v %v", page, err)
	}
	cinemaPage, err := e.svc.Catalog.Cinema(e.ctx, cinemaID)
	if err != nil || cinemaPage.Address == nil || len(cinemaPage.Tickets) != 1 {
		t.Fatalf("cinema page: %v %v", cinemaPage, err)
	}

	if err := e.svc.Booking.Book(e.ctx, alice, ticketID); err != nil {
		t.Fatalf("book: %v", err)
	}
	booked, err := e.svc.Catalog.BookedTickets(e.ctx, alice.UserID)
	if err != nil || len(booked) != 1 || booked[0].ID.String() != ticketID {
		t.Fatalf("booked tickets: %v %v", booked, err)
	}
}

func TestStoreErrorReportsBadValuesAsValidation(t *testing.T) {
	err := storeError("create address", errors.Join(repository.ErrBadValue, errors.New("numeric out of range")))
	var verr validation.Errors
	if !errors.As(err, &verr) || len(verr["non_field_errors"]) != 1 {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestTicketUserCanBeSetAndCleared(t *testing.T) {
	e := newEnv(t, utils.BookingModeOverwrite)
	_, _, ticketID := e.showing()
	alice := e.register("alice")

	if _, err := e.svc.Ticket.Update(e.ctx, ticketID, &request.TicketRequest{User: request.Of(alice.UserID.String())}); err != nil {
		t.Fatalf("assign owner: %v", err)
	}
	if got := e.owner(ticketID); got == nil || *got != alice.UserID.String() {
		t.Fatalf("expected alice as owner, got %v", got)
	}

	if _, err := e.svc.Ticket.Update(e.ctx, ticketID, &request.TicketRequest{Place: ptr("Row 1, seat 1")}); err != nil {
		t.Fatalf("update place: %v", err)
	}
	if e.owner(ticketID) == nil {
		t.Fatalf("absent user must keep the owner")
	}

	if _, err := e.svc.Ticket.Update(e.ctx, ticketID, &request.TicketRequest{User: request.Nullable[string]{Set: true}}); err != nil {
		t.Fatalf("clear owner: %v", err)
	}
	if got := e.owner(ticketID); got != nil {
		t.Fatalf("null user should clear the owner, got %v", *got)
	}

	_, err := e.svc.Ticket.Update(e.ctx, ticketID, &request.TicketRequest{User: request.Of(uuid.NewString())})
	var verr validation.Errors
	if !errors.As(err, &verr) || len(verr["user"]) != 1 {
		t.Fatalf("unknown user should be a field error, got %v", err)
	}
}

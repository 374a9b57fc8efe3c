package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cinephile/internal/data/repository/memory"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

type testApp struct {
	t          *testing.T
	app        *App
	adminToken string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	app := Wiring(memory.NewRepository(), utils.DefaultConfig(), zap.NewNop())

	username, password := "admin", "admin-password"
	_, err := app.Service.User.CreateSuperuser(context.Background(), &request.UserRequest{
		Username: &username,
		Password: &password,
	})
	if err != nil {
		t.Fatalf("create superuser: %v", err)
	}

	ta := &testApp{t: t, app: app}
	ta.adminToken = ta.login(username, password)
	return ta
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.app.Router.ServeHTTP(rec, req)
	return rec
}

// page sends a browser request carrying the session cookie.
func (a *testApp) page(method, path, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	}
	rec := httptest.NewRecorder()
	a.app.Router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) decode(rec *httptest.ResponseRecorder, into any) envelope {
	a.t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	if into != nil {
		if err := json.Unmarshal(env.Data, into); err != nil {
			a.t.Fatalf("decode data %q: %v", env.Data, err)
		}
	}
	return env
}

func (a *testApp) expect(rec *httptest.ResponseRecorder, status int) {
	a.t.Helper()
	if rec.Code != status {
		a.t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func (a *testApp) login(username, password string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api-token-auth/", "", map[string]string{
		"username": username,
		"password": password,
	})
	a.expect(rec, http.StatusOK)

	var token response.TokenResponse
	a.decode(rec, &token)
	if token.Token == "" {
		a.t.Fatalf("empty token for %s", username)
	}
	return token.Token
}

// register signs up through the public endpoint and returns the id and token.
func (a *testApp) register(username string) (string, string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/rest/user/", "", map[string]string{
		"username": username,
		"password": "correct-horse",
	})
	a.expect(rec, http.StatusCreated)

	var user response.UserResponse
	a.decode(rec, &user)
	return user.ID, a.login(username, "correct-horse")
}

func (a *testApp) create(path string, body any) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, path, a.adminToken, body)
	a.expect(rec, http.StatusCreated)

	var created struct {
		ID string `json:"id"`
	}
	a.decode(rec, &created)
	return created.ID
}

type showing struct {
	filmID, cinemaID, ticketID string
}

func (a *testApp) showing() showing {
	a.t.Helper()
	addressID := a.create("/rest/address/", map[string]any{
		"city_name":    "Moscow",
		"street_name":  "Tverskaya",
		"house_number": 7,
	})
	cinemaID := a.create("/rest/cinema/", map[string]any{"name": "Oktyabr", "address": addressID})
	filmID := a.create("/rest/film/", map[string]any{
		"name":        "Solaris",
		"description": "A psychologist is sent to a station orbiting a distant planet.",
		"rating":      4.5,
	})
	showingID := a.create("/rest/film_cinema/", map[string]any{"cinema": cinemaID, "film": filmID})
	ticketID := a.create("/rest/ticket/", map[string]any{
		"time":        "19:30",
		"place":       "Row 5, seat 12",
		"film_cinema": showingID,
	})
	return showing{filmID: filmID, cinemaID: cinemaID, ticketID: ticketID}
}

func (a *testApp) ticket(id string) response.TicketResponse {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/rest/ticket/"+id+"/", a.adminToken, nil)
	a.expect(rec, http.StatusOK)

	var ticket response.TicketResponse
	a.decode(rec, &ticket)
	return ticket
}

func owner(t response.TicketResponse) string {
	if t.User == nil {
		return ""
	}
	return *t.User
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	rec := a.page(http.MethodGet, "/health", "")
	a.expect(rec, http.StatusOK)
	if rec.Body.String() != "OK" {
		t.Fatalf("unexpected health body %q", rec.Body.String())
	}
}

func TestRegistrationAndTokenAuth(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(http.MethodPost, "/rest/user/", "", map[string]string{
		"username": "alice",
		"password": "correct-horse",
	})
	a.expect(rec, http.StatusCreated)
	if strings.Contains(rec.Body.String(), "correct-horse") || strings.Contains(rec.Body.String(), `"password"`) {
		t.Fatalf("password echoed back: %s", rec.Body.String())
	}

	first := a.login("alice", "correct-horse")
	if second := a.login("alice", "correct-horse"); second != first {
		t.Fatalf("token should be stable, got %q and %q", first, second)
	}

	rec = a.do(http.MethodPost, "/api-token-auth/", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	a.expect(rec, http.StatusBadRequest)
	if env := a.decode(rec, nil); len(env.Errors["non_field_errors"]) == 0 {
		t.Fatalf("expected non_field_errors, got %v", env.Errors)
	}
}

func TestTokenAuthAcceptsForm(t *testing.T) {
	a := newTestApp(t)
	a.register("alice")

	form := url.Values{"username": {"alice"}, "password": {"correct-horse"}}
	req := httptest.NewRequest(http.MethodPost, "/api-token-auth/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.app.Router.ServeHTTP(rec, req)
	a.expect(rec, http.StatusOK)
}

func TestInvalidTokenIsRejectedBeforeLookup(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(http.MethodGet, "/rest/cinema/"+uuid.NewString()+"/", "not-a-real-token", nil)
	a.expect(rec, http.StatusUnauthorized)

	rec = a.do(http.MethodGet, "/rest/cinema/"+uuid.NewString()+"/", "", nil)
	a.expect(rec, http.StatusNotFound)
}

func TestAuthorizationTiers(t *testing.T) {
	a := newTestApp(t)
	s := a.showing()
	_, alice := a.register("alice")

	a.expect(a.do(http.MethodGet, "/rest/film/", "", nil), http.StatusOK)
	a.expect(a.do(http.MethodGet, "/rest/ticket/", "", nil), http.StatusUnauthorized)
	a.expect(a.do(http.MethodGet, "/rest/ticket/", alice, nil), http.StatusOK)
	a.expect(a.do(http.MethodGet, "/rest/user/", "", nil), http.StatusUnauthorized)

	a.expect(a.do(http.MethodDelete, "/rest/film/"+s.filmID+"/", "", nil), http.StatusUnauthorized)
	a.expect(a.do(http.MethodDelete, "/rest/film/"+s.filmID+"/", alice, nil), http.StatusForbidden)
	a.expect(a.do(http.MethodPost, "/rest/film/", alice, map[string]any{"name": "x"}), http.StatusForbidden)

	a.expect(a.do(http.MethodDelete, "/rest/film/"+s.filmID+"/", a.adminToken, nil), http.StatusNoContent)
	a.expect(a.do(http.MethodGet, "/rest/film/"+s.filmID+"/", "", nil), http.StatusNotFound)

	// The showing and its ticket went with the film.
	a.expect(a.do(http.MethodGet, "/rest/ticket/"+s.ticketID+"/", alice, nil), http.StatusNotFound)
}

func TestValidationErrorsAreReportedPerField(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(http.MethodPost, "/rest/film/", a.adminToken, map[string]any{
		"name":   strings.Repeat("x", 81),
		"rating": 5.25,
	})
	a.expect(rec, http.StatusBadRequest)

	env := a.decode(rec, nil)
	for _, field := range []string{"name", "description", "rating"} {
		if len(env.Errors[field]) == 0 {
			t.Fatalf("expected an error for %s, got %v", field, env.Errors)
		}
	}

	a.expect(a.do(http.MethodGet, "/rest/film/not-a-uuid/", "", nil), http.StatusBadRequest)
}

func TestPartialUpdate(t *testing.T) {
	a := newTestApp(t)
	s := a.showing()

	rec := a.do(http.MethodPatch, "/rest/film/"+s.filmID+"/", a.adminToken, map[string]any{"rating": 3})
	a.expect(rec, http.StatusOK)

	var film response.FilmResponse
	a.decode(rec, &film)
	if film.Rating != 3 || film.Name != "Solaris" {
		t.Fatalf("patch should only change rating, got %+v", film)
	}
}

func TestBookingLastWriteWins(t *testing.T) {
	a := newTestApp(t)
	s := a.showing()
	aliceID, alice := a.register("alice")
	bobID, bob := a.register("bob")

	rec := a.page(http.MethodPost, "/book_tickets/?ticket_id="+s.ticketID, alice)
	a.expect(rec, http.StatusOK)
	if got := owner(a.ticket(s.ticketID)); got != aliceID {
		t.Fatalf("expected alice to own the ticket, got %q", got)
	}
	if !strings.Contains(rec.Body.String(), "Row 5, seat 12") {
		t.Fatalf("booked tickets page should list the ticket: %s", rec.Body.String())
	}

	a.expect(a.page(http.MethodPost, "/book_tickets/?ticket_id="+s.ticketID, bob), http.StatusOK)
	if got := owner(a.ticket(s.ticketID)); got != bobID {
		t.Fatalf("expected bob to own the ticket, got %q", got)
	}

	// Anyone may cancel.
	a.expect(a.page(http.MethodPost, "/cancel_ticket/?ticket_id="+s.ticketID, alice), http.StatusOK)
	if got := owner(a.ticket(s.ticketID)); got != "" {
		t.Fatalf("cancel should clear the owner, got %q", got)
	}
}

func TestBookingRequiresPostAndLogin(t *testing.T) {
	a := newTestApp(t)
	s := a.showing()
	aliceID, alice := a.register("alice")

	a.expect(a.page(http.MethodPost, "/book_tickets/?ticket_id="+s.ticketID, alice), http.StatusOK)

	rec := a.page(http.MethodGet, "/book_tickets/?ticket_id="+s.ticketID, alice)
	a.expect(rec, http.StatusOK)
	if rec.Body.String() != "Something went wrong..." {
		t.Fatalf("unexpected body for GET: %q", rec.Body.String())
	}

	rec = a.page(http.MethodPost, "/cancel_ticket/?ticket_id="+s.ticketID, "")
	a.expect(rec, http.StatusFound)
	if !strings.HasPrefix(rec.Header().Get("Location"), "/login/") {
		t.Fatalf("expected redirect to login, got %q", rec.Header().Get("Location"))
	}
	if got := owner(a.ticket(s.ticketID)); got != aliceID {
		t.Fatalf("anonymous cancel must leave the ticket alone, got %q", got)
	}

	rec = a.page(http.MethodPost, "/book_tickets/?ticket_id="+uuid.NewString(), alice)
	a.expect(rec, http.StatusNotFound)
	if rec.Body.String() != "Something went wrong..." {
		t.Fatalf("unexpected body for unknown ticket: %q", rec.Body.String())
	}
}

func TestDeletingUserReleasesTickets(t *testing.T) {
	a := newTestApp(t)
	s := a.showing()
	aliceID, alice := a.register("alice")

	a.expect(a.page(http.MethodPost, "/book_tickets/?ticket_id="+s.ticketID, alice), http.StatusOK)
	a.expect(a.do(http.MethodDelete, "/rest/user/"+aliceID+"/", a.adminToken, nil), http.StatusNoContent)

	if got := owner(a.ticket(s.ticketID)); got != "" {
		t.Fatalf("ticket should be released, got owner %q", got)
	}
	a.expect(a.do(http.MethodGet, "/rest/ticket/", alice, nil), http.StatusUnauthorized)
}

func TestPages(t *testing.T) {
	a := newTestApp(t)
	s := a.showing()
	_, alice := a.register("alice")

	for _, path := range []string{"/", "/films/", "/cinemas/", "/films/" + s.filmID + "/", "/cinemas/" + s.cinemaID + "/", "/login/", "/accounts/register/"} {
		a.expect(a.page(http.MethodGet, path, ""), http.StatusOK)
	}

	rec := a.page(http.MethodGet, "/films/"+s.filmID+"/", "")
	if !strings.Contains(rec.Body.String(), "Solaris") || !strings.Contains(rec.Body.String(), "Row 5, seat 12") {
		t.Fatalf("film page should show the film and its tickets: %s", rec.Body.String())
	}
	a.expect(a.page(http.MethodGet, "/films/"+uuid.NewString()+"/", ""), http.StatusNotFound)

	a.expect(a.page(http.MethodGet, "/tickets/", ""), http.StatusFound)
	a.expect(a.page(http.MethodGet, "/accounts/profile/", ""), http.StatusFound)
	a.expect(a.page(http.MethodGet, "/tickets/", alice), http.StatusOK)

	// A stale cookie browses anonymously instead of failing.
	a.expect(a.page(http.MethodGet, "/films/", "stale"), http.StatusOK)

	rec = a.page(http.MethodGet, "/accounts/profile/", alice)
	a.expect(rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "alice") {
		t.Fatalf("profile should show the username: %s", rec.Body.String())
	}
}

func postForm(a *testApp, path string, form url.Values) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.app.Router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginLogoutPages(t *testing.T) {
	a := newTestApp(t)

	rec := postForm(a, "/accounts/register/", url.Values{
		"username":   {"carol"},
		"first_name": {"Carol"},
		"last_name":  {"Danvers"},
		"email":      {"carol@example.com"},
		"password1":  {"correct-horse"},
		"password2":  {"wrong-horse"},
	})
	a.expect(rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "password2") {
		t.Fatalf("mismatched confirmation should be reported: %s", rec.Body.String())
	}

	rec = postForm(a, "/accounts/register/", url.Values{
		"username":   {"carol"},
		"first_name": {"Carol"},
		"last_name":  {"Danvers"},
		"email":      {"carol@example.com"},
		"password1":  {"correct-horse"},
		"password2":  {"correct-horse"},
	})
	a.expect(rec, http.StatusFound)
	if rec.Header().Get("Location") != "/" {
		t.Fatalf("registration should redirect home, got %q", rec.Header().Get("Location"))
	}

	rec = postForm(a, "/login/", url.Values{"username": {"carol"}, "password": {"bad-password"}})
	a.expect(rec, http.StatusOK)
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("failed login must not set a cookie")
	}

	rec = postForm(a, "/login/", url.Values{"username": {"carol"}, "password": {"correct-horse"}})
	a.expect(rec, http.StatusFound)
	if rec.Header().Get("Location") != "/accounts/profile/" {
		t.Fatalf("login should redirect to the profile, got %q", rec.Header().Get("Location"))
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "auth_token" || !cookies[0].HttpOnly {
		t.Fatalf("expected an http-only auth_token cookie, got %v", cookies)
	}

	a.expect(a.page(http.MethodGet, "/accounts/profile/", cookies[0].Value), http.StatusOK)

	rec = a.page(http.MethodGet, "/logout/", cookies[0].Value)
	a.expect(rec, http.StatusFound)
	if cleared := rec.Result().Cookies(); len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("logout should expire the cookie, got %v", cleared)
	}
}

func TestLoginRejectsOffsiteNext(t *testing.T) {
	a := newTestApp(t)
	a.register("alice")

	for _, next := range []string{
		"//evil.example.com/",
		`/\evil.example.com/`,
		`/\/evil.example.com/`,
		"https://evil.example.com/",
		"evil.example.com",
	} {
		rec := postForm(a, "/login/?next="+url.QueryEscape(next), url.Values{"username": {"alice"}, "password": {"correct-horse"}})
		a.expect(rec, http.StatusFound)
		if rec.Header().Get("Location") != "/accounts/profile/" {
			t.Fatalf("next %q should fall back to the profile, got %q", next, rec.Header().Get("Location"))
		}
	}

	rec := postForm(a, "/login/", url.Values{"username": {"alice"}, "password": {"correct-horse"}, "next": {`/\evil.example.com/`}})
	if rec.Header().Get("Location") != "/accounts/profile/" {
		t.Fatalf("form next with a backslash should fall back to the profile, got %q", rec.Header().Get("Location"))
	}

	rec = postForm(a, "/login/?next="+url.QueryEscape("/tickets/?page=2"), url.Values{"username": {"alice"}, "password": {"correct-horse"}})
	if rec.Header().Get("Location") != "/tickets/?page=2" {
		t.Fatalf("local next should be followed, got %q", rec.Header().Get("Location"))
	}
}

func TestValuesOutsideColumnRangesAreRejected(t *testing.T) {
	a := newTestApp(t)

	rec := a.do(http.MethodPost, "/rest/address/", a.adminToken, map[string]any{
		"city_name":        "Moscow",
		"street_name":      "Tverskaya",
		"house_number":     3000000000,
		"apartment_number": 3000000000,
	})
	a.expect(rec, http.StatusBadRequest)
	env := a.decode(rec, nil)
	if len(env.Errors["house_number"]) == 0 || len(env.Errors["apartment_number"]) == 0 {
		t.Fatalf("expected house_number and apartment_number errors, got %v", env.Errors)
	}

	rec = a.do(http.MethodPost, "/rest/user/", "", map[string]string{
		"username": "dave",
		"password": "correct-horse",
		"email":    strings.Repeat("d", 250) + "@example.com",
	})
	a.expect(rec, http.StatusBadRequest)
	if env := a.decode(rec, nil); len(env.Errors["email"]) == 0 {
		t.Fatalf("expected an email error, got %v", env.Errors)
	}
}

func TestNullClearsOptionalFields(t *testing.T) {
	a := newTestApp(t)
	s := a.showing()
	aliceID, alice := a.register("alice")

	addressID := a.create("/rest/address/", map[string]any{
		"city_name":        "Moscow",
		"street_name":      "Arbat",
		"house_number":     1,
		"apartment_number": 4,
		"body":             "2",
	})

	rec := a.do(http.MethodPatch, "/rest/address/"+addressID+"/", a.adminToken, map[string]any{"street_name": "Old Arbat"})
	a.expect(rec, http.StatusOK)
	var address response.AddressResponse
	a.decode(rec, &address)
	if address.ApartmentNumber == nil || *address.ApartmentNumber != 4 || address.Body == nil {
		t.Fatalf("absent fields must keep their value, got %+v", address)
	}

	rec = a.do(http.MethodPatch, "/rest/address/"+addressID+"/", a.adminToken, map[string]any{
		"apartment_number": nil,
		"body":             nil,
	})
	a.expect(rec, http.StatusOK)
	a.decode(rec, &address)
	if address.ApartmentNumber != nil || address.Body != nil || address.StreetName != "Old Arbat" {
		t.Fatalf("null should clear only the optional fields, got %+v", address)
	}

	a.expect(a.page(http.MethodPost, "/book_tickets/?ticket_id="+s.ticketID, alice), http.StatusOK)
	if got := owner(a.ticket(s.ticketID)); got != aliceID {
		t.Fatalf("expected alice to own the ticket, got %q", got)
	}
	rec = a.do(http.MethodPatch, "/rest/ticket/"+s.ticketID+"/", a.adminToken, map[string]any{"user": nil})
	a.expect(rec, http.StatusOK)
	if got := owner(a.ticket(s.ticketID)); got != "" {
		t.Fatalf("null user should release the ticket, got %q", got)
	}

	rec = a.do(http.MethodPatch, "/rest/ticket/"+s.ticketID+"/", a.adminToken, map[string]any{"user": "not-a-uuid"})
	a.expect(rec, http.StatusBadRequest)
	if env := a.decode(rec, nil); len(env.Errors["user"]) == 0 {
		t.Fatalf("malformed user should be a field error, got %v", env.Errors)
	}
}

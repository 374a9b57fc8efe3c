package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"cinephile/internal/policy"
	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubAuth map[string]*policy.Principal

func (s stubAuth) Authenticate(_ context.Context, key string) (*policy.Principal, error) {
	if p, ok := s[key]; ok {
		return p, nil
	}
	return nil, usecase.ErrInvalidToken
}

var (
	member = &policy.Principal{UserID: uuid.New(), Username: "member"}
	admin  = &policy.Principal{UserID: uuid.New(), Username: "root", IsAdmin: true}
	tokens = stubAuth{"member-key": member, "admin-key": admin}
)

func chain(rules policy.Rules, action policy.Action) http.Handler {
	log := zap.NewNop()
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	return Authenticate(tokens, log)(Authorize(rules, action, log)(ok))
}

func serve(h http.Handler, header string) int {
	req := httptest.NewRequest(http.MethodDelete, "/rest/cinema/x/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthorizeTiers(t *testing.T) {
	cases := []struct {
		name   string
		action policy.Action
		header string
		want   int
	}{
		{"public list anonymous", policy.ActionList, "", http.StatusTeapot},
		{"admin delete anonymous", policy.ActionDelete, "", http.StatusUnauthorized},
		{"admin delete member", policy.ActionDelete, "Token member-key", http.StatusForbidden},
		{"admin delete admin", policy.ActionDelete, "Bearer admin-key", http.StatusTeapot},
		{"invalid key on public route", policy.ActionList, "Token bogus", http.StatusUnauthorized},
		{"malformed header", policy.ActionList, "Basic abc", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := serve(chain(policy.AdminManaged, tc.action), tc.header); got != tc.want {
				t.Fatalf("status = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestAuthenticatePageIgnoresBadCookie(t *testing.T) {
	var seen *policy.Principal
	h := AuthenticatePage(tokens, "auth_token", zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetPrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/films/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "bogus"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != nil {
		t.Fatalf("bad cookie should leave the request anonymous")
	}

	req = httptest.NewRequest(http.MethodGet, "/films/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "member-key"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != member {
		t.Fatalf("valid cookie should authenticate, got %v", seen)
	}
}

func TestLoggerSeesPrincipal(t *testing.T) {
	log := zap.NewNop()
	var slotSeen bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot, ok := r.Context().Value(utils.PrincipalSlotKey).(*utils.PrincipalSlot)
		slotSeen = ok && slot.Principal == member
	})

	h := Logger(log)(Authenticate(tokens, log)(inner))
	req := httptest.NewRequest(http.MethodGet, "/rest/ticket/", nil)
	req.Header.Set("Authorization", "Token member-key")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !slotSeen {
		t.Fatalf("principal should be published to the logger slot")
	}
}

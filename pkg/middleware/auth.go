package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"cinephile/internal/policy"
	"cinephile/internal/usecase"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator resolves a token key to its principal. Unknown keys fail
// with usecase.ErrInvalidToken.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*policy.Principal, error)
}

// tokenFromHeader accepts "Bearer <key>" and "Token <key>".
func tokenFromHeader(header string) (string, bool) {
	scheme, key, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "bearer", "token":
	default:
		return "", false
	}
	key = strings.TrimSpace(key)
	return key, key != ""
}

// Authenticate resolves the Authorization header of API requests. Requests
// without the header continue anonymously; a malformed or unknown key is
// rejected with 401 before any handler runs.
func Authenticate(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			key, ok := tokenFromHeader(header)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token header. Use: Bearer <token>")
				return
			}

			principal, err := auth.Authenticate(r.Context(), key)
			if err != nil {
				if errors.Is(err, usecase.ErrInvalidToken) {
					logger.Warn("Invalid token", zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Invalid token")
					return
				}
				logger.Error("Failed to authenticate request", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetPrincipalContext(r.Context(), principal)
			ctx = utils.SetTokenContext(ctx, key)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticatePage reads the session cookie of the HTML pages. An invalid
// cookie leaves the request anonymous.
func AuthenticatePage(auth Authenticator, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := auth.Authenticate(r.Context(), cookie.Value)
			if err != nil {
				logger.Debug("Ignoring page cookie", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := utils.SetPrincipalContext(r.Context(), principal)
			ctx = utils.SetTokenContext(ctx, cookie.Value)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize guards one route with the tier that rules assign to action.
func Authorize(rules policy.Rules, action policy.Action, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := utils.GetPrincipalFromContext(r.Context())

			err := rules.Check(principal, action)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, policy.ErrAuthenticationRequired):
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
			default:
				logger.Warn("Access denied",
					zap.String("path", r.URL.Path),
					zap.String("action", string(action)),
					zap.String("user", principal.Username),
				)
				utils.ResponseForbidden(w, "You do not have permission to perform this action")
			}
		})
	}
}

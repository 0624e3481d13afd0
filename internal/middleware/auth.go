package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/blinkclip/blinkclip-go/internal/crypto"
	"github.com/blinkclip/blinkclip-go/internal/model"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserFinder resolves a user ID to the full account record. Satisfied by
// repository.UserRepository.
type UserFinder interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// CookieAuth returns middleware that resolves the request identity from a
// token carried in the named cookie. This is the web dashboard gateway; its
// rejection behavior (plain text, 401 for missing, 400 for invalid) is part
// of the compatibility contract.
//
// Unlike BearerAuth, this gateway does not re-check that the account still
// exists. The difference is inherited behavior, kept deliberately; see
// DESIGN.md.
func CookieAuth(tokens *crypto.TokenService, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "Access denied. No token.", http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(cookie.Value)
			if err != nil {
				http.Error(w, "Invalid token.", http.StatusBadRequest)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerAuth returns middleware that resolves the request identity from an
// Authorization: Bearer header. This is the extension API gateway. After the
// token verifies it re-resolves the account through the credential store and
// rejects if the account no longer exists, so an unexpired token for a
// deleted account stops working.
func BearerAuth(tokens *crypto.TokenService, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(authHeader, "Bearer ")
			if authHeader == "" || !found || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Missing or invalid token")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Token expired or invalid")
				return
			}

			if _, err := users.GetByID(r.Context(), userID); err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EitherAuth dispatches to the bearer gateway when an Authorization header is
// present and to the cookie gateway otherwise. Used only for endpoints both
// clients call, such as GET /me.
func EitherAuth(bearer, cookie func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		viaBearer := bearer(next)
		viaCookie := cookie(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "" {
				viaBearer.ServeHTTP(w, r)
				return
			}
			viaCookie.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

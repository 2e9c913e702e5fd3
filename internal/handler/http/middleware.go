package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mahatkd/federation-api/internal/auth"
	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	"github.com/mahatkd/federation-api/internal/repository"
	"github.com/mahatkd/federation-api/pkg/httputil"
	"github.com/mahatkd/federation-api/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "current_user"

// UserFromContext returns the authenticated user mounted by Authenticate,
// or nil on public routes.
func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userContextKey).(*domain.User)
	return u
}

// AuthMiddleware resolves bearer tokens into users.
type AuthMiddleware struct {
	tokens   *auth.TokenManager
	denylist *auth.Denylist
	users    repository.UserRepository
	logger   *slog.Logger
}

// NewAuthMiddleware creates the authentication middleware. denylist may be
// nil when token revocation is not configured.
func NewAuthMiddleware(tokens *auth.TokenManager, denylist *auth.Denylist, users repository.UserRepository, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, denylist: denylist, users: users, logger: logger}
}

// extractToken pulls the session token from the Authorization header,
// falling back to the session cookie set at login.
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate rejects requests without a valid session token and mounts
// the resolved user on the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			writeUnauthorized(w, "not authorized to access this route")
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				writeUnauthorized(w, "token expired, please login again")
				return
			}
			writeUnauthorized(w, "not authorized to access this route")
			return
		}

		if m.denylist != nil && m.denylist.IsRevoked(r.Context(), token) {
			writeUnauthorized(w, "not authorized to access this route")
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// A valid token for a deleted account is still a dead session.
			writeUnauthorized(w, "user not found or deleted")
			return
		}

		ctx := r.Context()
		ctx = context.WithValue(ctx, userContextKey, user)
		ctx = logger.WithUserID(ctx, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate mounts the user when a valid token is presented but
// lets anonymous requests through. Used on routes whose response shape
// depends on who is asking.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if m.denylist != nil && m.denylist.IsRevoked(r.Context(), token) {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route to the given roles. Must run after Authenticate.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				writeUnauthorized(w, "not authorized to access this route")
				return
			}
			if !allowed[user.Role] {
				httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
					Success: false,
					Message: "role '" + user.Role + "' is not authorized to access this route",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// reconnectTimeout bounds the inline reconnect attempt made on behalf of a
// request that arrives while the database is down.
const reconnectTimeout = 5 * time.Second

// RequireDatabase fails fast with 503 when the database is unreachable,
// after giving the guardian one chance to reconnect. Runs before any
// authentication so a dead database never turns into a confusing 401.
func RequireDatabase(guardian *database.Guardian, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guardian.Healthy(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), reconnectTimeout)
			err := guardian.ForceReconnect(ctx)
			cancel()
			if err != nil {
				logger.WarnContext(r.Context(), "request rejected, database unavailable",
					slog.String("path", r.URL.Path),
					slog.String("guardian_state", guardian.State().String()),
				)
				httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.Response{
					Success: false,
					Message: "service temporarily unavailable, please try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Success: false,
		Message: message,
	})
}

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mini_shop/internal/logging"
	"github.com/Skotchmaster/mini_shop/internal/models"
	"github.com/Skotchmaster/mini_shop/internal/service"
	"github.com/Skotchmaster/mini_shop/internal/session"
)

const (
	userKey   = "user"
	claimsKey = "claims"
)

// Resolver turns a raw session token into the user behind it.
type Resolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, *session.Claims, error)
}

type Middleware struct {
	Resolver Resolver
}

func New(r Resolver) *Middleware {
	return &Middleware{Resolver: r}
}

// RequireAuth accepts the session cookie or a bearer header. Both are tried
// in that order, so a stale cookie does not shadow a valid header.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "auth.require_auth")

		tokens := TokensFromRequest(c)
		if len(tokens) == 0 {
			l.Warn("auth_failed", "status", 401, "reason", "missing session token")
			return echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
		}

		var lastErr error
		for _, token := range tokens {
			user, claims, err := m.Resolver.CurrentUser(ctx, token)
			if err == nil {
				c.Set(userKey, user)
				c.Set(claimsKey, claims)
				return next(c)
			}
			if !errors.Is(err, service.ErrUnauthorized) {
				l.Error("auth_failed", "status", 500, "reason", "cannot resolve session", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "cannot resolve session")
			}
			lastErr = err
		}

		l.Warn("auth_failed", "status", 401, "reason", "invalid session", "error", lastErr)
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
	}
}

// TokensFromRequest returns the cookie token and then the bearer token,
// skipping empty and repeated values.
func TokensFromRequest(c echo.Context) []string {
	var out []string
	if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
		out = append(out, ck.Value)
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
		if tok := strings.TrimSpace(rest); tok != "" && (len(out) == 0 || out[0] != tok) {
			out = append(out, tok)
		}
	}
	return out
}

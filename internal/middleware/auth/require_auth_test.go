package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mini_shop/internal/models"
	"github.com/Skotchmaster/mini_shop/internal/service"
	"github.com/Skotchmaster/mini_shop/internal/session"
)

// fakeResolver knows a fixed set of tokens.
type fakeResolver struct {
	users map[string]*models.User
	err   error
	seen  []string
}

func (f *fakeResolver) CurrentUser(_ context.Context, token string) (*models.User, *session.Claims, error) {
	f.seen = append(f.seen, token)
	if f.err != nil {
		return nil, nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, &session.Claims{}, nil
	}
	return nil, nil, fmt.Errorf("token %q: %w", token, service.ErrUnauthorized)
}

func run(t *testing.T, r Resolver, cookie, bearer string) (*httptest.ResponseRecorder, *models.User, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *models.User
	err := New(r).RequireAuth(func(c echo.Context) error {
		u, err := CurrentUser(c)
		got = u
		return err
	})(c)
	return rec, got, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "want *echo.HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice"}
	bob := &models.User{ID: 2, Username: "bob"}
	users := map[string]*models.User{"a-token": alice, "b-token": bob}

	tests := []struct {
		name   string
		cookie string
		bearer string
		want   *models.User
		status int
	}{
		{name: "cookie", cookie: "a-token", want: alice},
		{name: "bearer", bearer: "b-token", want: bob},
		{name: "cookie first when both valid", cookie: "a-token", bearer: "b-token", want: alice},
		{name: "stale cookie falls back to bearer", cookie: "old", bearer: "b-token", want: bob},
		{name: "nothing", status: http.StatusUnauthorized},
		{name: "both invalid", cookie: "old", bearer: "older", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got, err := run(t, &fakeResolver{users: users}, tt.cookie, tt.bearer)
			if tt.status != 0 {
				assert.Equal(t, tt.status, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Same(t, tt.want, got)
		})
	}
}

func TestRequireAuth_StoreFailure(t *testing.T) {
	r := &fakeResolver{err: errors.New("db down")}
	_, _, err := run(t, r, "a-token", "b-token")
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
	assert.Equal(t, []string{"a-token"}, r.seen)
}

func TestTokensFromRequest_Dedup(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "same"})
	req.Header.Set(echo.HeaderAuthorization, "Bearer same")
	c := e.NewContext(req, httptest.NewRecorder())

	assert.Equal(t, []string{"same"}, TokensFromRequest(c))
}

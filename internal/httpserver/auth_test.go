package httpserver

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mini_shop/internal/session"
)

func TestRegister(t *testing.T) {
	s := newTestServer(t, serverOpts{})

	rec := s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Account created successfully", message(t, rec))

	rec = s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"other"}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/register", `{"username":"bob"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data", message(t, rec))
}

func TestRegister_PasswordTooLong(t *testing.T) {
	s := newTestServer(t, serverOpts{})

	body := `{"username":"bob","password":"` + strings.Repeat("a", 73) + `"}`
	rec := s.do(t, http.MethodPost, "/register", body, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid data", message(t, rec))

	rec = s.do(t, http.MethodPost, "/login", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, serverOpts{})

	rec := s.do(t, http.MethodPost, "/register", `{"username":"alice","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/login", `{"username":"alice","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized. Invalid credentials", message(t, rec))
	assert.Empty(t, rec.Result().Cookies())

	rec = s.do(t, http.MethodPost, "/login", `{"username":"nobody","password":"secret"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/login", `{"username":"alice","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged in successfully", message(t, rec))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestLogout_RevokesSession(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	ck := s.login(t, "alice")

	rec := s.do(t, http.MethodPost, "/logout", "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logout successfully", message(t, rec))

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)

	rec = s.do(t, http.MethodPost, "/logout", "", ck)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	last, ok := s.events.Last()
	require.True(t, ok)
	assert.Equal(t, "user_logged_out", last.Event["type"])
}

func TestBearerHeader_IsAccepted(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	ck := s.login(t, "alice")

	req := newJSONRequest(http.MethodGet, "/api/cart", "")
	req.Header.Set("Authorization", "Bearer "+ck.Value)
	rec := serve(s, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No products found in the cart", message(t, rec))
}

func TestBearerHeader_WinsOverStaleCookie(t *testing.T) {
	s := newTestServer(t, serverOpts{})
	ck := s.login(t, "alice")

	stale := s.login(t, "bob")
	rec := s.do(t, http.MethodPost, "/logout", "", stale)
	require.Equal(t, http.StatusOK, rec.Code)

	req := newJSONRequest(http.MethodGet, "/api/cart", "")
	req.AddCookie(stale)
	req.Header.Set("Authorization", "Bearer "+ck.Value)
	rec = serve(s, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No products found in the cart", message(t, rec))

	req = newJSONRequest(http.MethodGet, "/api/cart", "")
	req.AddCookie(stale)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, serve(s, req).Code)
}

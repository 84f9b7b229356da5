package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/mini_shop/internal/logging"
	mwauth "github.com/Skotchmaster/mini_shop/internal/middleware/auth"
	"github.com/Skotchmaster/mini_shop/internal/service"
	"github.com/Skotchmaster/mini_shop/internal/session"
	"github.com/Skotchmaster/mini_shop/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	CookieSecure bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid data")
	}

	if _, err := h.Svc.Register(ctx, req.Username, req.Password); err != nil {
		switch StatusFor(err) {
		case http.StatusConflict:
			return fail(l, "register_error", err, "Username already taken")
		default:
			return fail(l, "register_error", err, "Invalid data")
		}
	}

	l.Info("register_success", "username", req.Username)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Account created successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", err, "Unauthorized. Invalid credentials")
	}

	c.SetCookie(session.CreateCookie(res.Token, res.ExpiresAt, h.CookieSecure))
	l.Info("login_successful", "userID", res.User.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logged in successfully"})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	user, err := mwauth.CurrentUser(c)
	if err != nil {
		return err
	}
	claims, err := mwauth.CurrentClaims(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Logout(ctx, user, claims); err != nil {
		return fail(l, "logout_failed", err, "cannot log out")
	}

	c.SetCookie(session.DeleteCookie(h.CookieSecure))
	l.Info("logout_success", "userID", user.ID)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Logout successfully"})
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/events"
	"github.com/Skotchmaster/mini_shop/internal/hash"
	"github.com/Skotchmaster/mini_shop/internal/logging"
	"github.com/Skotchmaster/mini_shop/internal/models"
	"github.com/Skotchmaster/mini_shop/internal/repo"
	"github.com/Skotchmaster/mini_shop/internal/session"
)

type AuthService struct {
	Users    UserRepo
	Sessions *session.Manager
	Events   events.Publisher
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}
	if len(password) > hash.MaxPasswordBytes {
		l.Warn("register_error", "status", 400, "reason", "password too long")
		return nil, fmt.Errorf("password longer than %d bytes: %w", hash.MaxPasswordBytes, ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     username,
		PasswordHash: pwHash,
	}
	if err := s.Users.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("username %q: %w", username, ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUser, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		l.Warn("login_failed", "status", 401, "reason", "missing credentials")
		return nil, fmt.Errorf("missing credentials: %w", ErrUnauthorized)
	}

	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	}

	issued, err := s.Sessions.Start(ctx, user.ID)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUser, fmt.Sprint(user.ID), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	})

	return &LoginResult{
		User:      user,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// CurrentUser resolves the caller of a gated request from its session token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, *session.Claims, error) {
	claims, err := s.Sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrInvalid) {
			return nil, nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
		}
		return nil, nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, nil, fmt.Errorf("%v: %w", err, ErrUnauthorized)
	}

	user, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("session user %d is gone: %w", userID, ErrUnauthorized)
		}
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *AuthService) Logout(ctx context.Context, user *models.User, claims *session.Claims) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Sessions.End(ctx, claims.ID); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke session", "error", err)
		return err
	}

	events.Emit(ctx, s.Events, events.TopicUser, fmt.Sprint(user.ID), map[string]any{
		"type":   "user_logged_out",
		"userID": user.ID,
	})
	return nil
}

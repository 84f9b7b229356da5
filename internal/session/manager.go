package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/mini_shop/internal/models"
)

var ErrInvalid = errors.New("invalid session")

// Manager issues session tokens and resolves them against the server-side
// store. A token is only valid while its store entry is active.
type Manager struct {
	Store  Store
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

type Issued struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) Start(ctx context.Context, userID uint) (*Issued, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.TTL)
	jti := NewJTI()

	token, err := SignToken(m.Secret, userID, jti, issuedAt, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	sess := &models.Session{
		JTI:       jti,
		UserID:    userID,
		TokenHash: Sha256Hex(token),
		ExpiresAt: expiresAt,
	}
	if err := m.Store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &Issued{Token: token, JTI: jti, ExpiresAt: expiresAt}, nil
}

func (m *Manager) Resolve(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalid
	}
	claims, err := ParseToken(token, m.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	sess, err := m.Store.Find(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalid
		}
		return nil, err
	}
	if !sess.Active(m.now()) || sess.TokenHash != Sha256Hex(token) {
		return nil, ErrInvalid
	}
	return claims, nil
}

func (m *Manager) End(ctx context.Context, jti string) error {
	if jti == "" {
		return nil
	}
	return m.Store.Revoke(ctx, jti)
}

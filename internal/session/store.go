package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/models"
)

var ErrNotFound = errors.New("session not found")

type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Find(ctx context.Context, jti string) (*models.Session, error)
	Revoke(ctx context.Context, jti string) error
}

type GormStore struct {
	DB *gorm.DB
}

func (s *GormStore) Create(ctx context.Context, sess *models.Session) error {
	return s.DB.WithContext(ctx).Create(sess).Error
}

func (s *GormStore) Find(ctx context.Context, jti string) (*models.Session, error) {
	var sess models.Session
	if err := s.DB.WithContext(ctx).Where("jti = ?", jti).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *GormStore) Revoke(ctx context.Context, jti string) error {
	return s.DB.WithContext(ctx).Model(&models.Session{}).
		Where("jti = ?", jti).
		Update("revoked", true).Error
}

// RedisStore keeps sessions under "session:<jti>" with a TTL equal to the
// session lifetime; revoking deletes the key.
type RedisStore struct {
	Client *redis.Client
}

func redisKey(jti string) string {
	return "session:" + jti
}

func (s *RedisStore) Create(ctx context.Context, sess *models.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sess.JTI)
	}
	data, err := json.Marshal(redisSession{
		UserID:    sess.UserID,
		TokenHash: sess.TokenHash,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, redisKey(sess.JTI), data, ttl).Err()
}

func (s *RedisStore) Find(ctx context.Context, jti string) (*models.Session, error) {
	data, err := s.Client.Get(ctx, redisKey(jti)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var rs redisSession
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", jti, err)
	}
	return &models.Session{
		JTI:       jti,
		UserID:    rs.UserID,
		TokenHash: rs.TokenHash,
		ExpiresAt: rs.ExpiresAt,
	}, nil
}

func (s *RedisStore) Revoke(ctx context.Context, jti string) error {
	return s.Client.Del(ctx, redisKey(jti)).Err()
}

type redisSession struct {
	UserID    uint      `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
}

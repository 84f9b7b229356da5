package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mini_shop/internal/db"
	"github.com/Skotchmaster/mini_shop/internal/events"
	"github.com/Skotchmaster/mini_shop/internal/repo"
	"github.com/Skotchmaster/mini_shop/internal/search"
	"github.com/Skotchmaster/mini_shop/internal/session"
)

type testEnv struct {
	Repo    *repo.GormRepo
	Events  *events.Memory
	Auth    *AuthService
	Catalog *CatalogService
	Cart    *CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	mem := &events.Memory{}

	return &testEnv{
		Repo:   r,
		Events: mem,
		Auth: &AuthService{
			Users: r,
			Sessions: &session.Manager{
				Store:  &session.GormStore{DB: gdb},
				Secret: []byte("test-session-secret"),
				TTL:    time.Hour,
			},
			Events: mem,
		},
		Catalog: &CatalogService{Repo: r, Index: &search.GormIndex{DB: gdb}, Events: mem},
		Cart:    &CartService{Repo: r, Users: r, Products: r, Events: mem},
	}
}

func ptr[T any](v T) *T { return &v }

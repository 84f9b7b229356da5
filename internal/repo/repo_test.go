package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/db"
	"github.com/Skotchmaster/mini_shop/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	return &GormRepo{DB: gdb}
}

func TestCreateUserIfNotExists(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "alice", PasswordHash: "h1"}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))
	require.NotZero(t, u.ID)

	dup := &models.User{Username: "alice", PasswordHash: "h2"}
	assert.ErrorIs(t, r.CreateUserIfNotExists(ctx, dup), ErrUserAlreadyExist)

	got, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.PasswordHash)

	_, err = r.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProductCRUD(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	items, err := r.ListProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	p := &models.Product{Name: "Pen", Price: 1.5}
	require.NoError(t, r.CreateProduct(ctx, p))

	got, err := r.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Product{ID: p.ID, Name: "Pen", Price: 1.5, Description: ""}, *got)

	updated, err := r.UpdateProduct(ctx, p.ID, map[string]any{"price": 2.0})
	require.NoError(t, err)
	assert.Equal(t, "Pen", updated.Name)
	assert.Equal(t, 2.0, updated.Price)

	unchanged, err := r.UpdateProduct(ctx, p.ID, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, unchanged.Price)

	_, err = r.UpdateProduct(ctx, 999, map[string]any{"name": "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrRecordNotFound)
}

func TestCartLines(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	pen := &models.Product{Name: "Pen", Price: 1}
	ink := &models.Product{Name: "Ink", Price: 2}
	require.NoError(t, r.CreateProduct(ctx, pen))
	require.NoError(t, r.CreateProduct(ctx, ink))

	for _, pid := range []uint{pen.ID, pen.ID, ink.ID} {
		require.NoError(t, r.AddCartItem(ctx, &models.CartItem{UserID: 1, ProductID: pid}))
	}
	require.NoError(t, r.AddCartItem(ctx, &models.CartItem{UserID: 2, ProductID: pen.ID}))

	lines, err := r.ListCartLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Pen", lines[0].ProductName)
	assert.Equal(t, "Pen", lines[1].ProductName)
	assert.Equal(t, "Ink", lines[2].ProductName)
	assert.NotEqual(t, lines[0].ID, lines[1].ID)

	item, err := r.FindCartItem(ctx, 1, pen.ID)
	require.NoError(t, err)
	assert.Equal(t, lines[0].ID, item.ID)

	require.NoError(t, r.DeleteCartItem(ctx, item))
	assert.ErrorIs(t, r.DeleteCartItem(ctx, item), gorm.ErrRecordNotFound)

	// deleted products keep their lines, listed without a name
	require.NoError(t, r.DeleteProduct(ctx, ink.ID))
	lines, err = r.ListCartLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "", lines[1].ProductName)

	n, err := r.ClearCart(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = r.ClearCart(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, n)

	other, err := r.ListCartLines(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

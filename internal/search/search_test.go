package search

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mini_shop/internal/db"
	"github.com/Skotchmaster/mini_shop/internal/models"
)

func TestGormIndex_Search(t *testing.T) {
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	for _, p := range []models.Product{
		{Name: "Blue Pen", Price: 1.5},
		{Name: "Notebook", Price: 3, Description: "lined, fits a pen loop"},
		{Name: "Stapler", Price: 9},
	} {
		require.NoError(t, gdb.Create(&p).Error)
	}

	idx := &GormIndex{DB: gdb}
	ctx := context.Background()

	total, items, err := idx.Search(ctx, "PEN", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Blue Pen", items[0].Name)
	assert.Equal(t, "Notebook", items[1].Name)

	total, items, err = idx.Search(ctx, "pen", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Notebook", items[0].Name)

	total, items, err = idx.Search(ctx, "lamp", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestElasticIndex(t *testing.T) {
	url := os.Getenv("TEST_ES_URL")
	if url == "" {
		t.Skip("TEST_ES_URL is required for elasticsearch tests")
	}

	idx, err := NewElastic(ElasticConfig{
		URL:      url,
		User:     os.Getenv("TEST_ES_USER"),
		Password: os.Getenv("TEST_ES_PASSWORD"),
		Index:    "products_test_" + uuid.NewString()[:8],
	})
	require.NoError(t, err)

	ctx := context.Background()
	p := models.Product{ID: 42, Name: "Fountain pen", Price: 20}
	require.NoError(t, idx.IndexProduct(ctx, p))

	total, items, err := idx.Search(ctx, "fountain", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, p, items[0])

	require.NoError(t, idx.DeleteProduct(ctx, p.ID))
	require.NoError(t, idx.DeleteProduct(ctx, p.ID))
}

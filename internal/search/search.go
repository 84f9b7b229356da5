package search

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/models"
)

// Index keeps a searchable copy of the catalog.
type Index interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

// GormIndex searches the products table directly. Indexing is a no-op since
// the table is the source of truth.
type GormIndex struct {
	DB *gorm.DB
}

func (g *GormIndex) IndexProduct(context.Context, models.Product) error { return nil }
func (g *GormIndex) DeleteProduct(context.Context, uint) error          { return nil }

func (g *GormIndex) Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	where := g.DB.WithContext(ctx).Model(&models.Product{}).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, size)
	if err := where.Session(&gorm.Session{}).Order("id ASC").Offset(from).Limit(size).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

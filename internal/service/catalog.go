package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/events"
	"github.com/Skotchmaster/mini_shop/internal/logging"
	"github.com/Skotchmaster/mini_shop/internal/models"
	"github.com/Skotchmaster/mini_shop/internal/search"
	"github.com/Skotchmaster/mini_shop/internal/transport"
	"github.com/Skotchmaster/mini_shop/internal/util"
)

type CatalogService struct {
	Repo   ProductRepo
	Index  search.Index
	Events events.Publisher
}

func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}

func (s *CatalogService) Add(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == nil || req.Price == nil {
		return nil, fmt.Errorf("name and price are required: %w", ErrValidation)
	}

	prod := models.Product{
		Name:  *req.Name,
		Price: *req.Price,
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}

	if err := s.Repo.CreateProduct(ctx, &prod); err != nil {
		return nil, err
	}

	s.index(ctx, prod)
	events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return &prod, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return prod, nil
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, fmt.Errorf("no products: %w", ErrEmpty)
	}
	return items, nil
}

// Update applies only the supplied fields; values are stored as given.
func (s *CatalogService) Update(ctx context.Context, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	prod, err := s.Repo.UpdateProduct(ctx, id, req.Fields())
	if err != nil {
		return nil, notFound(err, "product", id)
	}

	s.index(ctx, *prod)
	events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(prod.ID), map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.Name,
	})
	return prod, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "product", id)
	}

	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Error("search_index_failed", "productID", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProduct, fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (int64, []models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, fmt.Errorf("empty query: %w", ErrValidation)
	}
	if s.Index == nil {
		return 0, nil, errors.New("search is not configured")
	}
	from, limit := util.Calculate(page, size)
	if !util.InWindow(from, limit) {
		return 0, nil, fmt.Errorf("page %d of size %d is past the last %d results: %w", page, limit, util.MaxResultWindow, ErrValidation)
	}
	return s.Index.Search(ctx, query, from, limit)
}

func (s *CatalogService) index(ctx context.Context, prod models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, prod); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "productID", prod.ID, "error", err)
	}
}

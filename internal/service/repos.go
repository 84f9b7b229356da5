package service

import (
	"context"

	"github.com/Skotchmaster/mini_shop/internal/models"
)

type UserRepo interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type ProductRepo interface {
	CreateProduct(ctx context.Context, prod *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	UpdateProduct(ctx context.Context, id uint, fields map[string]any) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type CartRepo interface {
	AddCartItem(ctx context.Context, item *models.CartItem) error
	FindCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, item *models.CartItem) error
	ListCartLines(ctx context.Context, userID uint) ([]models.CartLine, error)
	ClearCart(ctx context.Context, userID uint) (int64, error)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/events"
	"github.com/Skotchmaster/mini_shop/internal/models"
)

type CartService struct {
	Repo     CartRepo
	Users    UserRepo
	Products ProductRepo
	Events   events.Publisher
}

func (s *CartService) Add(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	if _, err := s.Users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrFailure)
		}
		return nil, err
	}
	if _, err := s.Products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, ErrFailure)
		}
		return nil, err
	}

	item := models.CartItem{UserID: userID, ProductID: productID}
	if err := s.Repo.AddCartItem(ctx, &item); err != nil {
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicCart, fmt.Sprint(userID), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"lineID":    item.ID,
	})
	return &item, nil
}

// Remove deletes at most one line of the user for the product.
func (s *CartService) Remove(ctx context.Context, userID, productID uint) error {
	item, err := s.Repo.FindCartItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no line for product %d: %w", productID, ErrFailure)
		}
		return err
	}

	if err := s.Repo.DeleteCartItem(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("line %d already removed: %w", item.ID, ErrFailure)
		}
		return err
	}

	events.Emit(ctx, s.Events, events.TopicCart, fmt.Sprint(userID), map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
		"lineID":    item.ID,
	})
	return nil
}

func (s *CartService) List(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines, err := s.Repo.ListCartLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return lines, fmt.Errorf("cart of user %d: %w", userID, ErrEmpty)
	}
	return lines, nil
}

// Checkout clears the cart. No order or payment record is produced.
func (s *CartService) Checkout(ctx context.Context, userID uint) (int64, error) {
	n, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("cart of user %d: %w", userID, ErrEmpty)
	}

	events.Emit(ctx, s.Events, events.TopicCart, fmt.Sprint(userID), map[string]any{
		"type":   "cart_checked_out",
		"userID": userID,
		"items":  n,
	})
	return n, nil
}

package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/mini_shop/internal/models"
)

func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

// FindCartItem returns the oldest line of the user for the product.
func (r *GormRepo) FindCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Order("id ASC").
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteCartItem reports gorm.ErrRecordNotFound when the line was already
// gone, e.g. removed by a concurrent request.
func (r *GormRepo) DeleteCartItem(ctx context.Context, item *models.CartItem) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", item.ID, item.UserID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListCartLines(ctx context.Context, userID uint) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	if err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.id AS id, cart_items.product_id AS product_id, COALESCE(products.name, '') AS product_name").
		Joins("LEFT JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ClearCart deletes every line of the user in one transaction and returns
// how many there were.
func (r *GormRepo) ClearCart(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		res := tx.Where("user_id = ?", userID).Delete(&models.CartItem{})
		if res.Error != nil {
			return res.Error
		}
		count = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"svgecommerce/internal/errors"
	"svgecommerce/internal/model"
)

// CartRepository defines cart persistence operations.
type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	SaveLine(ctx context.Context, line *model.CartLine) error
	DeleteLine(ctx context.Context, cartID, productID uuid.UUID) (int64, error)
	DeleteLines(ctx context.Context, cartID uuid.UUID) error
	UpdateTotal(ctx context.Context, cart *model.Cart) error
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

// Create inserts an empty cart. A second cart for the same user fails with
// gorm.ErrDuplicatedKey.
func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Omit("Products").Create(cart).Error
}

// FindByUserID loads the user's cart with its lines.
func (r *cartRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// SaveLine inserts a new line or updates the subtotal of an existing one.
func (r *cartRepository) SaveLine(ctx context.Context, line *model.CartLine) error {
	if line.ID == uuid.Nil {
		return r.db.WithContext(ctx).Create(line).Error
	}
	return r.db.WithContext(ctx).Model(line).Update("sub_total", line.SubTotal).Error
}

// DeleteLine removes the product's line and reports how many rows went away.
func (r *cartRepository) DeleteLine(ctx context.Context, cartID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartLine{})
	return res.RowsAffected, res.Error
}

// DeleteLines empties the cart.
func (r *cartRepository) DeleteLines(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartLine{}).Error
}

// UpdateTotal writes TotalPrice if the stored version still matches and
// bumps the version. A stale version yields ErrVersionConflict.
func (r *cartRepository) UpdateTotal(ctx context.Context, cart *model.Cart) error {
	res := r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ? AND version = ?", cart.ID, cart.Version).
		Updates(map[string]interface{}{
			"total_price": cart.TotalPrice,
			"version":     cart.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrVersionConflict
	}
	cart.Version++
	return nil
}

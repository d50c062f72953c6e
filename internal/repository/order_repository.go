package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"svgecommerce/internal/model"
)

// OrderRepository defines order persistence operations. Orders are never
// updated or deleted.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListContainingCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its lines.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("user_id = ?", userID).
		Order("purchased_on DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.WithContext(ctx).Preload("Products").Order("purchased_on DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListContainingCreator lists orders with at least one line for a product
// created by creatorID.
func (r *orderRepository) ListContainingCreator(ctx context.Context, creatorID uuid.UUID) ([]model.Order, error) {
	containing := r.db.Model(&model.OrderLine{}).
		Select("order_lines.order_id").
		Joins("JOIN products ON products.id = order_lines.product_id").
		Where("products.creator_id = ?", creatorID)

	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("id IN (?)", containing).
		Order("purchased_on DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

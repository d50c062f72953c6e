package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"svgecommerce/internal/access"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/metrics"
	"svgecommerce/internal/model"
	"svgecommerce/internal/repository"
)

// PlacedOrder is the committed order and the products it was placed for, in
// line order.
type PlacedOrder struct {
	Order    *model.Order    `json:"order"`
	Products []model.Product `json:"products"`
}

// OrderService places and lists orders.
type OrderService interface {
	PlaceOrder(ctx context.Context, actor access.Actor, productIDs []uuid.UUID) (*PlacedOrder, error)
	ListForUser(ctx context.Context, actor access.Actor) ([]model.Order, error)
	ListAll(ctx context.Context, actor access.Actor) ([]model.Order, error)
	ListPurchasedProducts(ctx context.Context, actor access.Actor) ([]model.Product, error)
	ListForDesigner(ctx context.Context, actor access.Actor) ([]model.Order, error)
}

type orderService struct {
	store repository.Store
	log   *slog.Logger
}

// NewOrderService builds an OrderService.
func NewOrderService(store repository.Store, log *slog.Logger) OrderService {
	return &orderService{store: store, log: log}
}

const unavailableMessage = "Unable to place order. One of the products does not exists or not available"

// PlaceOrder buys every listed product at its current price. Either all
// products exist and are active and the order is written, or nothing is.
// A product listed twice yields two lines.
func (s *orderService) PlaceOrder(ctx context.Context, actor access.Actor, productIDs []uuid.UUID) (*PlacedOrder, error) {
	if err := access.CanShop(actor, "Only regular user and designer can place order"); err != nil {
		return nil, err
	}
	if len(productIDs) == 0 {
		return nil, errors.Reject("Unable to place order. No products provided")
	}

	var placed *PlacedOrder
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		wanted := distinct(productIDs)
		available, err := tx.Products().CountActiveByIDs(ctx, wanted)
		if err != nil {
			return fmt.Errorf("count active products: %w", err)
		}
		if available != int64(len(wanted)) {
			return errors.Reject(unavailableMessage)
		}

		found, err := tx.Products().FindByIDs(ctx, wanted)
		if err != nil {
			return fmt.Errorf("find products: %w", err)
		}

		byID := make(map[uuid.UUID]model.Product, len(found))
		for _, p := range found {
			if p.IsActive {
				byID[p.ID] = p
			}
		}
		if len(byID) != len(wanted) {
			return errors.Reject(unavailableMessage)
		}

		order := &model.Order{
			UserID:      actor.ID,
			TotalAmount: decimal.Zero,
			Products:    make([]model.OrderLine, 0, len(productIDs)),
		}
		products := make([]model.Product, 0, len(productIDs))
		for _, id := range productIDs {
			p := byID[id]
			order.Products = append(order.Products, model.OrderLine{ProductID: id, SubTotal: p.Price})
			order.TotalAmount = order.TotalAmount.Add(p.Price)
			products = append(products, p)
		}

		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		placed = &PlacedOrder{Order: order, Products: products}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.OrdersPlaced.Inc()
	s.log.InfoContext(ctx, "order placed",
		slog.String("order_id", placed.Order.ID.String()),
		slog.String("user_id", actor.ID.String()),
		slog.String("total", placed.Order.TotalAmount.StringFixed(2)))
	return placed, nil
}

func (s *orderService) ListForUser(ctx context.Context, actor access.Actor) ([]model.Order, error) {
	if err := access.CanShop(actor, "Only regular user can retrieve its orders"); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders().ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) ListAll(ctx context.Context, actor access.Actor) ([]model.Order, error) {
	if err := access.RequireAdmin(actor, "Unauthorized to retrieve all orders"); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListPurchasedProducts lists each product the caller has ordered once.
func (s *orderService) ListPurchasedProducts(ctx context.Context, actor access.Actor) ([]model.Product, error) {
	if err := access.CanShop(actor, "Only regular user can retrieve its orders"); err != nil {
		return nil, err
	}
	products, err := s.store.Products().ListOrderedBy(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list ordered products: %w", err)
	}
	return products, nil
}

// ListForDesigner lists orders containing at least one of the caller's products.
func (s *orderService) ListForDesigner(ctx context.Context, actor access.Actor) ([]model.Order, error) {
	if err := access.RequireDesigner(actor, "Only designer can retrieve orders of their products"); err != nil {
		return nil, err
	}
	orders, err := s.store.Orders().ListContainingCreator(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list designer orders: %w", err)
	}
	return orders, nil
}

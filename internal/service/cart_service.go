package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"svgecommerce/internal/access"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/metrics"
	"svgecommerce/internal/model"
	"svgecommerce/internal/repository"
)

// CartService maintains each user's single cart. A cart's total always
// equals the sum of its line subtotals.
type CartService interface {
	AddToCart(ctx context.Context, actor access.Actor, productID uuid.UUID) (*model.Cart, error)
	RemoveFromCart(ctx context.Context, actor access.Actor, productID uuid.UUID) error
	ClearCart(ctx context.Context, actor access.Actor, hint []uuid.UUID) error
	ListCartProducts(ctx context.Context, actor access.Actor) ([]model.Product, error)
}

type cartService struct {
	store   repository.Store
	retries int
	log     *slog.Logger
	// Mutex map for per-user locking
	userMutexes keyedMutex
}

// NewCartService builds a CartService.
func NewCartService(store repository.Store, retries int, log *slog.Logger) CartService {
	return &cartService{
		store:   store,
		retries: retries,
		log:     log,
	}
}

// AddToCart adds the product's price to its line, creating the cart and the
// line when needed.
func (s *cartService) AddToCart(ctx context.Context, actor access.Actor, productID uuid.UUID) (*model.Cart, error) {
	if err := access.CanShop(actor, "Only regular user and designer can add to cart"); err != nil {
		return nil, err
	}

	mutex := s.userMutexes.get(actor.ID)
	mutex.Lock()
	defer mutex.Unlock()

	var cart *model.Cart
	err := retryOnConflict(ctx, s.retries, "cart", func() error {
		return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			product, err := tx.Products().FindByID(ctx, productID)
			if err != nil {
				if isNotFound(err) {
					return errors.Reject("Product does not exists!")
				}
				return fmt.Errorf("find product: %w", err)
			}

			c, err := s.findOrCreateCart(ctx, tx, actor.ID)
			if err != nil {
				return err
			}

			if line := c.Line(productID); line != nil {
				line.SubTotal = line.SubTotal.Add(product.Price)
				if err := tx.Carts().SaveLine(ctx, line); err != nil {
					return fmt.Errorf("update cart line: %w", err)
				}
			} else {
				line := model.CartLine{CartID: c.ID, ProductID: productID, SubTotal: product.Price}
				if err := tx.Carts().SaveLine(ctx, &line); err != nil {
					if isDuplicate(err) {
						return errors.ErrVersionConflict
					}
					return fmt.Errorf("create cart line: %w", err)
				}
				c.Products = append(c.Products, line)
			}

			c.Recalculate()
			if err := tx.Carts().UpdateTotal(ctx, c); err != nil {
				return err
			}
			cart = c
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutations.WithLabelValues("add").Inc()
	return cart, nil
}

// findOrCreateCart loads the user's cart or creates an empty one. Losing a
// creation race reports a version conflict so the caller retries and finds
// the winner.
func (s *cartService) findOrCreateCart(ctx context.Context, tx repository.Store, userID uuid.UUID) (*model.Cart, error) {
	c, err := tx.Carts().FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	c = &model.Cart{UserID: userID}
	if err := tx.Carts().Create(ctx, c); err != nil {
		if isDuplicate(err) {
			return nil, errors.ErrVersionConflict
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return c, nil
}

func (s *cartService) RemoveFromCart(ctx context.Context, actor access.Actor, productID uuid.UUID) error {
	if err := access.CanShop(actor, "Only regular user can remove product from cart"); err != nil {
		return err
	}

	mutex := s.userMutexes.get(actor.ID)
	mutex.Lock()
	defer mutex.Unlock()

	err := retryOnConflict(ctx, s.retries, "cart", func() error {
		return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			if _, err := tx.Products().FindByID(ctx, productID); err != nil {
				if isNotFound(err) {
					return errors.Reject("Product does not exists!")
				}
				return fmt.Errorf("find product: %w", err)
			}

			c, err := tx.Carts().FindByUserID(ctx, actor.ID)
			if err != nil {
				if isNotFound(err) {
					return errors.Reject("Cart does not exists!")
				}
				return fmt.Errorf("find cart: %w", err)
			}

			removed, err := tx.Carts().DeleteLine(ctx, c.ID, productID)
			if err != nil {
				return fmt.Errorf("delete cart line: %w", err)
			}
			if removed == 0 {
				return errors.Reject("Unable to removed product. Product not found in the cart")
			}

			kept := c.Products[:0]
			for _, line := range c.Products {
				if line.ProductID != productID {
					kept = append(kept, line)
				}
			}
			c.Products = kept
			c.Recalculate()
			return tx.Carts().UpdateTotal(ctx, c)
		})
	})
	if err != nil {
		return err
	}

	metrics.CartMutations.WithLabelValues("remove").Inc()
	return nil
}

// ClearCart empties the caller's cart. Every product in hint must exist; the
// lines removed are always the cart's own.
func (s *cartService) ClearCart(ctx context.Context, actor access.Actor, hint []uuid.UUID) error {
	mutex := s.userMutexes.get(actor.ID)
	mutex.Lock()
	defer mutex.Unlock()

	hint = distinct(hint)
	err := retryOnConflict(ctx, s.retries, "cart", func() error {
		return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			c, err := tx.Carts().FindByUserID(ctx, actor.ID)
			if err != nil {
				if isNotFound(err) {
					return errors.Reject("Cart does not exists!")
				}
				return fmt.Errorf("find cart: %w", err)
			}

			if len(hint) > 0 {
				found, err := tx.Products().FindByIDs(ctx, hint)
				if err != nil {
					return fmt.Errorf("find hinted products: %w", err)
				}
				if len(found) != len(hint) {
					return errors.Reject("Product does not exists!")
				}
			}

			if err := tx.Carts().DeleteLines(ctx, c.ID); err != nil {
				return fmt.Errorf("delete cart lines: %w", err)
			}
			c.Products = nil
			c.Recalculate()
			return tx.Carts().UpdateTotal(ctx, c)
		})
	})
	if err != nil {
		return err
	}

	metrics.CartMutations.WithLabelValues("clear").Inc()
	s.log.DebugContext(ctx, "cart cleared", slog.String("user_id", actor.ID.String()))
	return nil
}

// ListCartProducts lists the products in the caller's cart. No cart means no products.
func (s *cartService) ListCartProducts(ctx context.Context, actor access.Actor) ([]model.Product, error) {
	c, err := s.store.Carts().FindByUserID(ctx, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return []model.Product{}, nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	products, err := s.store.Products().ListInCart(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart products: %w", err)
	}
	return products, nil
}

func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

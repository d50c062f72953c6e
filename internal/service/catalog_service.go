package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"svgecommerce/internal/access"
	"svgecommerce/internal/cache"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/model"
	"svgecommerce/internal/repository"
)

// ActiveSampleSize is the most products ListActive returns per call.
const ActiveSampleSize = 60

// NewProduct is the data needed to list a product.
type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	ImageData   model.ImageData
}

// ProductChanges is a partial update. Nil fields keep their current value.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	ImageData   *model.ImageData
}

// CatalogService manages products.
type CatalogService interface {
	Create(ctx context.Context, actor access.Actor, in NewProduct) (*model.Product, error)
	Update(ctx context.Context, actor access.Actor, id uuid.UUID, changes ProductChanges) (*model.Product, error)
	Archive(ctx context.Context, actor access.Actor, id uuid.UUID) error
	Unarchive(ctx context.Context, actor access.Actor, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListActive(ctx context.Context, exclude []uuid.UUID) ([]model.Product, error)
	Search(ctx context.Context, name, sort, filter string) ([]model.Product, error)
	ListAll(ctx context.Context) ([]model.Product, error)
	ListByCreator(ctx context.Context, actor access.Actor, activeOnly bool) ([]model.Product, error)
	GetForDesigner(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Product, error)
}

type catalogService struct {
	store     repository.Store
	cache     *cache.Client
	images    *ImageValidator
	retries   int
	cacheTTL  time.Duration
	log       *slog.Logger
	shuffleFn func(n int, swap func(i, j int))
}

// NewCatalogService builds a CatalogService.
func NewCatalogService(store repository.Store, cache *cache.Client, retries int, cacheTTL time.Duration, log *slog.Logger) CatalogService {
	return &catalogService{
		store:     store,
		cache:     cache,
		images:    NewImageValidator(),
		retries:   retries,
		cacheTTL:  cacheTTL,
		log:       log,
		shuffleFn: rand.Shuffle,
	}
}

// Create lists a product owned by the caller. Creator name and picture are
// copied from the caller's account.
func (s *catalogService) Create(ctx context.Context, actor access.Actor, in NewProduct) (*model.Product, error) {
	if err := access.CanManageProducts(actor, "create"); err != nil {
		return nil, err
	}

	creator, err := s.store.Users().FindByID(ctx, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("You are not allowed to add product!")
		}
		return nil, fmt.Errorf("find creator: %w", err)
	}

	if err := s.images.ValidateImageData(in.ImageData.ResizedImage, in.ImageData.OriginalImage); err != nil {
		return nil, err
	}

	product := &model.Product{
		CreatorID:             creator.ID,
		CreatorProfilePicture: creator.ProfilePicture,
		CreatorName:           creator.FullName(),
		Name:                  in.Name,
		ImageData:             in.ImageData,
		Description:           in.Description,
		Price:                 in.Price,
		IsActive:              true,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID.String()),
		slog.String("creator_id", creator.ID.String()))
	return product, nil
}

func (s *catalogService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, changes ProductChanges) (*model.Product, error) {
	if err := access.CanManageProducts(actor, "update"); err != nil {
		return nil, err
	}
	if changes.ImageData != nil {
		if err := s.images.ValidateImageData(changes.ImageData.ResizedImage, changes.ImageData.OriginalImage); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, id, func(p *model.Product) error {
		if err := access.OwnsProduct(actor, p); err != nil {
			return err
		}
		if changes.Name != nil {
			p.Name = *changes.Name
		}
		if changes.Description != nil {
			p.Description = *changes.Description
		}
		if changes.Price != nil {
			p.Price = *changes.Price
		}
		if changes.ImageData != nil {
			p.ImageData = *changes.ImageData
		}
		return nil
	})
}

func (s *catalogService) Archive(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := access.CanManageProducts(actor, "archive"); err != nil {
		return err
	}
	_, err := s.mutate(ctx, id, func(p *model.Product) error {
		if err := access.OwnsProduct(actor, p); err != nil {
			return err
		}
		p.IsActive = false
		return nil
	})
	return err
}

// Unarchive reactivates a product. Any designer may unarchive any product.
func (s *catalogService) Unarchive(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	if err := access.CanManageProducts(actor, "unarchive"); err != nil {
		return err
	}
	_, err := s.mutate(ctx, id, func(p *model.Product) error {
		p.IsActive = true
		return nil
	})
	return err
}

// mutate loads the product, applies fn and writes it back with a version
// check, reloading and reapplying on conflict.
func (s *catalogService) mutate(ctx context.Context, id uuid.UUID, fn func(p *model.Product) error) (*model.Product, error) {
	var product *model.Product
	err := retryOnConflict(ctx, s.retries, "product", func() error {
		p, err := s.store.Products().FindByID(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return errors.Reject("Product does not exists!")
			}
			return fmt.Errorf("find product: %w", err)
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := s.store.Products().Update(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, productCacheKey(id), product.Version)
	return product, nil
}

// Get returns the product whether or not it is active.
func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var cached model.Product
	if s.cache.GetJSON(ctx, productCacheKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.store.Products().FindByIDWithReactors(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("Product does not exist!")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

// cacheProduct fills the read cache unless a newer version was written since
// product was loaded.
func (s *catalogService) cacheProduct(ctx context.Context, product *model.Product) {
	s.cache.SetJSONIfNewer(ctx, productCacheKey(product.ID), product.Version, product, s.cacheTTL)
}

// ListActive samples up to ActiveSampleSize active products not in exclude,
// without replacement. The result keeps the sample order.
func (s *catalogService) ListActive(ctx context.Context, exclude []uuid.UUID) ([]model.Product, error) {
	ids, err := s.store.Products().ListActiveIDs(ctx, exclude)
	if err != nil {
		return nil, fmt.Errorf("list active ids: %w", err)
	}
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	s.shuffleFn(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > ActiveSampleSize {
		ids = ids[:ActiveSampleSize]
	}

	found, err := s.store.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load sample: %w", err)
	}

	byID := make(map[uuid.UUID]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	sample := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		// archived between the two queries
		if p, ok := byID[id]; ok && p.IsActive {
			sample = append(sample, p)
		}
	}
	return sample, nil
}

// Search matches active products by name substring and image format.
// Unknown sort modes leave the order unspecified.
func (s *catalogService) Search(ctx context.Context, name, sort, filter string) ([]model.Product, error) {
	products, err := s.store.Products().Search(ctx, repository.SearchQuery{
		Name:        name,
		Sort:        repository.SortMode(sort),
		ImageFormat: NormalizeFilter(filter),
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func (s *catalogService) ListAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.Products().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// ListByCreator lists the caller's own products.
func (s *catalogService) ListByCreator(ctx context.Context, actor access.Actor, activeOnly bool) ([]model.Product, error) {
	products, err := s.store.Products().ListByCreator(ctx, actor.ID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list creator products: %w", err)
	}
	return products, nil
}

// GetForDesigner returns one of the caller's active products.
func (s *catalogService) GetForDesigner(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Product, error) {
	product, err := s.store.Products().FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("Product does not exist!")
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !product.IsActive {
		return nil, errors.Reject("Product does not exist!")
	}
	if product.CreatorID != actor.ID {
		return nil, errors.Reject("This is not your product!")
	}
	return product, nil
}

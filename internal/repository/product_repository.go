package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"svgecommerce/internal/errors"
	"svgecommerce/internal/model"
)

// SortMode selects the ordering of search results.
type SortMode string

const (
	SortPriceDesc   SortMode = "high"
	SortPriceAsc    SortMode = "low"
	SortBestSelling SortMode = "best_selling"
	SortLatest      SortMode = "latest"
	SortOldest      SortMode = "oldest"
)

// SearchQuery filters active products by name substring and image format.
// An empty ImageFormat matches every format.
type SearchQuery struct {
	Name        string
	Sort        SortMode
	ImageFormat string
}

// ProductRepository defines product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDWithReactors(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	List(ctx context.Context) ([]model.Product, error)
	ListByCreator(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]model.Product, error)
	ListActiveIDs(ctx context.Context, exclude []uuid.UUID) ([]uuid.UUID, error)
	CountActiveByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
	Search(ctx context.Context, q SearchQuery) ([]model.Product, error)
	ListInCart(ctx context.Context, cartID uuid.UUID) ([]model.Product, error)
	ListOrderedBy(ctx context.Context, userID uuid.UUID) ([]model.Product, error)
	UpsertReactor(ctx context.Context, reactor *model.Reactor) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// FindByID finds a product by ID whether or not it is active.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDWithReactors finds a product and loads its reactors.
func (r *productRepository) FindByIDWithReactors(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Reactors").Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the given products in no particular order.
func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Update writes the mutable columns if the stored version still matches
// product.Version, and bumps the version. A stale version yields ErrVersionConflict.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]interface{}{
			"name":           product.Name,
			"description":    product.Description,
			"price":          product.Price,
			"resized_image":  product.ImageData.ResizedImage,
			"original_image": product.ImageData.OriginalImage,
			"is_active":      product.IsActive,
			"ratings":        product.Ratings,
			"version":        product.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrVersionConflict
	}
	product.Version++
	return nil
}

// List lists every product, archived ones included.
func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("created_on DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCreator lists the products of one designer.
func (r *productRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID, activeOnly bool) ([]model.Product, error) {
	q := r.db.WithContext(ctx).Where("creator_id = ?", creatorID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var products []model.Product
	if err := q.Order("created_on DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListActiveIDs returns the IDs of every active product not in exclude.
func (r *productRepository) ListActiveIDs(ctx context.Context, exclude []uuid.UUID) ([]uuid.UUID, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("is_active = ?", true)
	// NOT IN with an empty list would match nothing
	if len(exclude) > 0 {
		q = q.Where("id NOT IN ?", exclude)
	}
	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountActiveByIDs counts how many of ids are existing active products.
func (r *productRepository) CountActiveByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Count(&n).Error
	return n, err
}

// Search matches active products whose name contains q.Name (case-insensitive)
// and whose resized image is a data URI of q.ImageFormat.
func (r *productRepository) Search(ctx context.Context, q SearchQuery) ([]model.Product, error) {
	tx := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("products.is_active = ?", true).
		Where("LOWER(products.name) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(q.Name))+"%").
		Where("products.resized_image LIKE ? ESCAPE '!'", "data:image/"+escapeLike(q.ImageFormat)+"%")

	switch q.Sort {
	case SortPriceDesc:
		tx = tx.Order("products.price DESC")
	case SortPriceAsc:
		tx = tx.Order("products.price ASC")
	case SortLatest:
		tx = tx.Order("products.created_on DESC")
	case SortOldest:
		tx = tx.Order("products.created_on ASC")
	case SortBestSelling:
		tx = tx.Select("products.*, COUNT(order_lines.id) AS orders_count").
			Joins("LEFT JOIN order_lines ON order_lines.product_id = products.id").
			Group("products.id").
			Order("orders_count DESC")
	}

	var products []model.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListInCart lists the products that have a line in the cart.
func (r *productRepository) ListInCart(ctx context.Context, cartID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Select("products.*").
		Joins("JOIN cart_lines ON cart_lines.product_id = products.id").
		Where("cart_lines.cart_id = ?", cartID).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListOrderedBy lists the distinct products that appear in the user's orders.
func (r *productRepository) ListOrderedBy(ctx context.Context, userID uuid.UUID) ([]model.Product, error) {
	ordered := r.db.Model(&model.OrderLine{}).
		Select("order_lines.product_id").
		Joins("JOIN orders ON orders.id = order_lines.order_id").
		Where("orders.user_id = ?", userID)

	var products []model.Product
	if err := r.db.WithContext(ctx).Where("id IN (?)", ordered).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// UpsertReactor inserts the reactor or overwrites the reaction of the
// existing (product, user) pair.
func (r *productRepository) UpsertReactor(ctx context.Context, reactor *model.Reactor) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction", "updated_at"}),
	}).Create(reactor).Error
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

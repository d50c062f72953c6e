package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"svgecommerce/internal/model"
)

// CommentRepository defines comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	UpdateText(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) UpdateText(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Model(comment).Update("comment", comment.Comment).Error
}

// Delete removes the comment and reports how many rows went away.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("commented_on ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

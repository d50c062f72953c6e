package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"svgecommerce/internal/model"
)

// FollowerRepository defines follower edge persistence operations.
type FollowerRepository interface {
	Create(ctx context.Context, edge *model.Follower) error
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]model.Follower, error)
}

type followerRepository struct {
	db *gorm.DB
}

// NewFollowerRepository creates a new follower repository.
func NewFollowerRepository(db *gorm.DB) FollowerRepository {
	return &followerRepository{db: db}
}

// Create inserts the edge. A repeated edge fails with gorm.ErrDuplicatedKey.
func (r *followerRepository) Create(ctx context.Context, edge *model.Follower) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

// ListFollowers lists the edges pointing at userID.
func (r *followerRepository) ListFollowers(ctx context.Context, userID uuid.UUID) ([]model.Follower, error) {
	var edges []model.Follower
	err := r.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at ASC").
		Find(&edges).Error
	if err != nil {
		return nil, err
	}
	return edges, nil
}

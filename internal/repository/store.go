package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store hands out repositories bound to one database handle and runs
// functions inside a transaction with repositories bound to that transaction.
type Store interface {
	Users() UserRepository
	Products() ProductRepository
	Carts() CartRepository
	Orders() OrderRepository
	Comments() CommentRepository
	Followers() FollowerRepository

	// WithTransaction commits when fn returns nil and rolls back otherwise.
	// Only the Store passed to fn may be used inside fn.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore builds a GORM-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository         { return NewUserRepository(s.db) }
func (s *gormStore) Products() ProductRepository   { return NewProductRepository(s.db) }
func (s *gormStore) Carts() CartRepository         { return NewCartRepository(s.db) }
func (s *gormStore) Orders() OrderRepository       { return NewOrderRepository(s.db) }
func (s *gormStore) Comments() CommentRepository   { return NewCommentRepository(s.db) }
func (s *gormStore) Followers() FollowerRepository { return NewFollowerRepository(s.db) }

// WithTransaction executes a function within a database transaction.
func (s *gormStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}

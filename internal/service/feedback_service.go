package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"svgecommerce/internal/access"
	"svgecommerce/internal/cache"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/model"
	"svgecommerce/internal/repository"
)

const (
	minRatings = 0
	maxRatings = 5
)

// CommentThread is a product together with all of its comments.
type CommentThread struct {
	Product  *model.Product  `json:"product"`
	Comments []model.Comment `json:"comments"`
}

// FeedbackService handles comments and reactions on products.
type FeedbackService interface {
	AddComment(ctx context.Context, actor access.Actor, productID uuid.UUID, text string) (*CommentThread, error)
	UpdateComment(ctx context.Context, actor access.Actor, productID, commentID uuid.UUID, text string) (*model.Comment, error)
	RemoveComment(ctx context.Context, actor access.Actor, productID, commentID uuid.UUID) error
	ListComments(ctx context.Context, productID uuid.UUID) ([]model.Comment, error)
	React(ctx context.Context, actor access.Actor, productID uuid.UUID, reaction int, ratings float64) (*model.Product, error)
}

type feedbackService struct {
	store   repository.Store
	cache   *cache.Client
	retries int
	log     *slog.Logger
}

// NewFeedbackService builds a FeedbackService.
func NewFeedbackService(store repository.Store, cache *cache.Client, retries int, log *slog.Logger) FeedbackService {
	return &feedbackService{
		store:   store,
		cache:   cache,
		retries: retries,
		log:     log,
	}
}

// AddComment stores a comment with the author's current name and picture.
func (s *feedbackService) AddComment(ctx context.Context, actor access.Actor, productID uuid.UUID, text string) (*CommentThread, error) {
	if err := access.CanShop(actor, "Only regular user and designer can add a comment"); err != nil {
		return nil, err
	}

	var thread *CommentThread
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		user, product, err := s.findUserAndProduct(ctx, tx, actor.ID, productID)
		if err != nil {
			return err
		}

		comment := &model.Comment{
			ProductID:   product.ID,
			UserID:      user.ID,
			UserProfile: user.ProfilePicture,
			UserName:    user.FullName(),
			Comment:     text,
		}
		if err := tx.Comments().Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}

		comments, err := tx.Comments().ListByProduct(ctx, product.ID)
		if err != nil {
			return fmt.Errorf("list comments: %w", err)
		}
		thread = &CommentThread{Product: product, Comments: comments}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *feedbackService) UpdateComment(ctx context.Context, actor access.Actor, productID, commentID uuid.UUID, text string) (*model.Comment, error) {
	if err := access.CanShop(actor, "Only regular user and designer can add a comment"); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := access.OwnsComment(actor, comment, productID); err != nil {
		return nil, err
	}

	comment.Comment = text
	if err := s.store.Comments().UpdateText(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// RemoveComment deletes a comment. Admins may remove anyone's comment.
func (s *feedbackService) RemoveComment(ctx context.Context, actor access.Actor, productID, commentID uuid.UUID) error {
	comment, err := s.findComment(ctx, commentID)
	if err != nil {
		return err
	}
	if err := access.CanRemoveComment(actor, comment, productID); err != nil {
		return err
	}

	deleted, err := s.store.Comments().Delete(ctx, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if deleted == 0 {
		return errors.Reject("No comment deleted.")
	}

	s.log.InfoContext(ctx, "comment removed",
		slog.String("comment_id", commentID.String()),
		slog.String("by", actor.ID.String()))
	return nil
}

func (s *feedbackService) ListComments(ctx context.Context, productID uuid.UUID) ([]model.Comment, error) {
	comments, err := s.store.Comments().ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// React records the caller's reaction, replacing an earlier one, and sets the
// product ratings to the value the client computed.
func (s *feedbackService) React(ctx context.Context, actor access.Actor, productID uuid.UUID, reaction int, ratings float64) (*model.Product, error) {
	if ratings < minRatings || ratings > maxRatings {
		return nil, errors.Reject(fmt.Sprintf("Ratings must be between %d and %d", minRatings, maxRatings))
	}

	var product *model.Product
	err := retryOnConflict(ctx, s.retries, "product", func() error {
		return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
			user, p, err := s.findUserAndProduct(ctx, tx, actor.ID, productID)
			if err != nil {
				return err
			}

			if err := tx.Products().UpsertReactor(ctx, &model.Reactor{ProductID: p.ID, UserID: user.ID, Reaction: reaction}); err != nil {
				return fmt.Errorf("upsert reactor: %w", err)
			}

			p.Ratings = ratings
			if err := tx.Products().Update(ctx, p); err != nil {
				return err
			}

			product, err = tx.Products().FindByIDWithReactors(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("reload product: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, productCacheKey(productID), product.Version)
	return product, nil
}

func (s *feedbackService) findUserAndProduct(ctx context.Context, tx repository.Store, userID, productID uuid.UUID) (*model.User, *model.Product, error) {
	user, err := tx.Users().FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, errors.Reject("User does not exists!")
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	product, err := tx.Products().FindByID(ctx, productID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, errors.Reject("Product does not exists!")
		}
		return nil, nil, fmt.Errorf("find product: %w", err)
	}
	return user, product, nil
}

func (s *feedbackService) findComment(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.store.Comments().FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("Comment not found")
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return comment, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"svgecommerce/internal/access"
	"svgecommerce/internal/auth"
	"svgecommerce/internal/cache"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/model"
	"svgecommerce/internal/repository"
)

// RegisterInput is the data needed to open an account.
type RegisterInput struct {
	FirstName  string
	LastName   string
	Suffix     string
	Email      string
	Address    string
	MobileNo   string
	Password   string
	IsAdmin    bool
	IsDesigner bool
}

// ProfileInput holds the self-editable profile fields. Empty values clear the field.
type ProfileInput struct {
	ProfilePicture string
	FirstName      string
	LastName       string
	Suffix         string
	Address        string
	MobileNo       string
}

// ProfileUpdate is returned after a profile change together with a fresh token.
type ProfileUpdate struct {
	Access      string      `json:"access"`
	UpdatedInfo *model.User `json:"updated_info"`
}

// DesignerPromotion is returned after self-promotion to designer.
type DesignerPromotion struct {
	User   *model.User `json:"user"`
	Access string      `json:"access"`
}

// UserService handles accounts, roles and followers.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CheckEmail(ctx context.Context, email string) (bool, error)
	Details(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateDetails(ctx context.Context, userID uuid.UUID, in ProfileInput) (*ProfileUpdate, error)
	SetAdmin(ctx context.Context, actor access.Actor, userID uuid.UUID) (*model.User, error)
	SetDesigner(ctx context.Context, actor access.Actor) (*DesignerPromotion, error)
	Follow(ctx context.Context, actor access.Actor, followingID uuid.UUID) (*model.Follower, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]model.Follower, error)
	Logout(ctx context.Context, tokenID string, ttl time.Duration) error
}

type userService struct {
	store      repository.Store
	cache      *cache.Client
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	bcryptCost int
	cacheTTL   time.Duration
	log        *slog.Logger
}

// NewUserService builds a UserService.
func NewUserService(
	store repository.Store,
	cache *cache.Client,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	bcryptCost int,
	cacheTTL time.Duration,
	log *slog.Logger,
) UserService {
	return &userService{
		store:      store,
		cache:      cache,
		jwtService: jwtService,
		tokenStore: tokenStore,
		bcryptCost: bcryptCost,
		cacheTTL:   cacheTTL,
		log:        log,
	}
}

// Register creates a new account with hashed password.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.TrimSpace(in.Email)

	_, err := s.store.Users().FindByEmail(ctx, email)
	if err == nil {
		return nil, errors.Reject("Email is already registered!")
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Suffix:       in.Suffix,
		Email:        email,
		Address:      in.Address,
		MobileNo:     in.MobileNo,
		PasswordHash: string(hashed),
		IsAdmin:      in.IsAdmin,
		IsDesigner:   in.IsDesigner,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if isDuplicate(err) {
			return nil, errors.Reject("Email is already registered!")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks the credentials and returns an access token.
func (s *userService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if isNotFound(err) {
			return "", errors.Reject("User does not exist!")
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.Reject("Password is incorrect!")
	}

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *userService) CheckEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(email))
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("check email: %w", err)
}

func (s *userService) Details(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, userCacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	s.cache.SetJSON(ctx, userCacheKey(userID), user, s.cacheTTL)
	return user, nil
}

func (s *userService) UpdateDetails(ctx context.Context, userID uuid.UUID, in ProfileInput) (*ProfileUpdate, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("User not found!")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	user.ProfilePicture = in.ProfilePicture
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Suffix = in.Suffix
	user.Address = in.Address
	user.MobileNo = in.MobileNo

	if err := s.store.Users().UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &ProfileUpdate{Access: token, UpdatedInfo: user}, nil
}

func (s *userService) SetAdmin(ctx context.Context, actor access.Actor, userID uuid.UUID) (*model.User, error) {
	if err := access.RequireAdmin(actor, "Not authorized to update to admin"); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("Unable to set as admin. User ID not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.store.Users().SetAdmin(ctx, userID); err != nil {
		return nil, fmt.Errorf("set admin: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(userID))

	user.IsAdmin = true
	s.log.InfoContext(ctx, "user promoted to admin",
		slog.String("user_id", userID.String()),
		slog.String("by", actor.ID.String()))
	return user, nil
}

// SetDesigner promotes the caller and returns a token carrying the new role.
func (s *userService) SetDesigner(ctx context.Context, actor access.Actor) (*DesignerPromotion, error) {
	user, err := s.store.Users().FindByID(ctx, actor.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("Unable to set as designer. User ID not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := s.store.Users().SetDesigner(ctx, actor.ID); err != nil {
		return nil, fmt.Errorf("set designer: %w", err)
	}
	_ = s.cache.Delete(ctx, userCacheKey(actor.ID))
	user.IsDesigner = true

	token, err := s.jwtService.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &DesignerPromotion{User: user, Access: token}, nil
}

// Follow records that the caller follows followingID and bumps that user's
// follower counter in the same transaction.
func (s *userService) Follow(ctx context.Context, actor access.Actor, followingID uuid.UUID) (*model.Follower, error) {
	if followingID == actor.ID {
		return nil, errors.Reject("You cannot follow yourself")
	}

	edge := &model.Follower{FollowerID: actor.ID, FollowingID: followingID}
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, followingID); err != nil {
			if isNotFound(err) {
				return errors.Reject("User not found!")
			}
			return fmt.Errorf("find user: %w", err)
		}

		if err := tx.Followers().Create(ctx, edge); err != nil {
			if isDuplicate(err) {
				return errors.Reject("You already follow this user")
			}
			return fmt.Errorf("create follower: %w", err)
		}

		if err := tx.Users().IncrementFollowers(ctx, followingID); err != nil {
			return fmt.Errorf("increment followers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, userCacheKey(followingID))
	return edge, nil
}

func (s *userService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]model.Follower, error) {
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return nil, errors.Reject("User not found!")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	edges, err := s.store.Followers().ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return edges, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *userService) Logout(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.ErrUnauthorized
	}
	if err := s.tokenStore.Revoke(ctx, tokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"svgecommerce/internal/access"
	"svgecommerce/internal/auth"
	"svgecommerce/internal/cache"
	"svgecommerce/internal/db/dbtest"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/logger"
	"svgecommerce/internal/model"
	"svgecommerce/internal/repository"
)

const (
	testImage   = "data:image/png;base64,iVBORw0KGgo="
	testRetries = 3
)

type fixture struct {
	store    repository.Store
	redis    *miniredis.Miniredis
	cache    *cache.Client
	jwt      *auth.JWTService
	tokens   *auth.TokenStore
	users    UserService
	catalog  CatalogService
	carts    CartService
	orders   OrderService
	feedback FeedbackService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := repository.NewStore(dbtest.New(t))
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	log := logger.Discard()
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	tokens := auth.NewTokenStore(c)

	return &fixture{
		store:    store,
		redis:    mr,
		cache:    c,
		jwt:      jwtService,
		tokens:   tokens,
		users:    NewUserService(store, c, jwtService, tokens, bcrypt.MinCost, time.Minute, log),
		catalog:  NewCatalogService(store, c, testRetries, time.Minute, log),
		carts:    NewCartService(store, testRetries, log),
		orders:   NewOrderService(store, log),
		feedback: NewFeedbackService(store, c, testRetries, log),
	}
}

// user stores an account directly and returns it as an actor.
func (f *fixture) user(t *testing.T, email string, isAdmin, isDesigner bool) access.Actor {
	t.Helper()
	u := &model.User{
		FirstName:    "Grace",
		LastName:     "Hopper",
		Email:        email,
		PasswordHash: "unused",
		IsAdmin:      isAdmin,
		IsDesigner:   isDesigner,
	}
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return access.Actor{ID: u.ID, Email: u.Email, IsAdmin: isAdmin, IsDesigner: isDesigner}
}

func (f *fixture) product(t *testing.T, creator access.Actor, name, price string) *model.Product {
	t.Helper()
	p := &model.Product{
		CreatorID:   creator.ID,
		CreatorName: "Grace Hopper",
		Name:        name,
		ImageData:   model.ImageData{ResizedImage: testImage, OriginalImage: testImage},
		Description: "artwork",
		Price:       decimal.RequireFromString(price),
		IsActive:    true,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func requireRejection(t *testing.T, err error, message string) {
	t.Helper()
	rej, ok := errors.AsRejection(err)
	require.Truef(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, message, rej.Message)
}

func TestRetryOnConflict(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds after conflicts", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(ctx, 3, "test", func() error {
			calls++
			if calls < 3 {
				return errors.ErrVersionConflict
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(ctx, 2, "test", func() error {
			calls++
			return errors.ErrVersionConflict
		})
		assert.ErrorIs(t, err, errors.ErrVersionConflict)
		assert.Equal(t, 2, calls)
	})

	t.Run("rejections are not retried", func(t *testing.T) {
		calls := 0
		err := retryOnConflict(ctx, 3, "test", func() error {
			calls++
			return errors.Reject("nope")
		})
		requireRejection(t, err, "nope")
		assert.Equal(t, 1, calls)
	})
}

func TestKeyedMutex(t *testing.T) {
	var k keyedMutex
	a := uuid.New()
	b := uuid.New()
	for stripeOf(b) == stripeOf(a) {
		b = uuid.New()
	}

	assert.Same(t, k.get(a), k.get(a))
	assert.NotSame(t, k.get(a), k.get(b))

	seen := make(map[*sync.Mutex]struct{})
	for i := 0; i < 10*lockStripes; i++ {
		seen[k.get(uuid.New())] = struct{}{}
	}
	assert.LessOrEqual(t, len(seen), lockStripes)
}

func TestDistinct(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, distinct([]uuid.UUID{a, b, a, a, b}))
	assert.Empty(t, distinct(nil))
}

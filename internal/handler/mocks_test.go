package handler_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"svgecommerce/internal/access"
	"svgecommerce/internal/model"
	"svgecommerce/internal/service"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) CheckEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Details(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateDetails(ctx context.Context, userID uuid.UUID, in service.ProfileInput) (*service.ProfileUpdate, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileUpdate), args.Error(1)
}

func (m *MockUserService) SetAdmin(ctx context.Context, actor access.Actor, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, actor, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SetDesigner(ctx context.Context, actor access.Actor) (*service.DesignerPromotion, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DesignerPromotion), args.Error(1)
}

func (m *MockUserService) Follow(ctx context.Context, actor access.Actor, followingID uuid.UUID) (*model.Follower, error) {
	args := m.Called(ctx, actor, followingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Follower), args.Error(1)
}

func (m *MockUserService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]model.Follower, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Follower), args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) product(args mock.Arguments) (*model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) products(args mock.Arguments) ([]model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, actor access.Actor, in service.NewProduct) (*model.Product, error) {
	return m.product(m.Called(ctx, actor, in))
}

func (m *MockCatalogService) Update(ctx context.Context, actor access.Actor, id uuid.UUID, changes service.ProductChanges) (*model.Product, error) {
	return m.product(m.Called(ctx, actor, id, changes))
}

func (m *MockCatalogService) Archive(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockCatalogService) Unarchive(ctx context.Context, actor access.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockCatalogService) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockCatalogService) ListActive(ctx context.Context, exclude []uuid.UUID) ([]model.Product, error) {
	return m.products(m.Called(ctx, exclude))
}

func (m *MockCatalogService) Search(ctx context.Context, name, sort, filter string) ([]model.Product, error) {
	return m.products(m.Called(ctx, name, sort, filter))
}

func (m *MockCatalogService) ListAll(ctx context.Context) ([]model.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockCatalogService) ListByCreator(ctx context.Context, actor access.Actor, activeOnly bool) ([]model.Product, error) {
	return m.products(m.Called(ctx, actor, activeOnly))
}

func (m *MockCatalogService) GetForDesigner(ctx context.Context, actor access.Actor, id uuid.UUID) (*model.Product, error) {
	return m.product(m.Called(ctx, actor, id))
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) AddToCart(ctx context.Context, actor access.Actor, productID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, actor, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) RemoveFromCart(ctx context.Context, actor access.Actor, productID uuid.UUID) error {
	return m.Called(ctx, actor, productID).Error(0)
}

func (m *MockCartService) ClearCart(ctx context.Context, actor access.Actor, hint []uuid.UUID) error {
	return m.Called(ctx, actor, hint).Error(0)
}

func (m *MockCartService) ListCartProducts(ctx context.Context, actor access.Actor) ([]model.Product, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orders(args mock.Arguments) ([]model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, actor access.Actor, productIDs []uuid.UUID) (*service.PlacedOrder, error) {
	args := m.Called(ctx, actor, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PlacedOrder), args.Error(1)
}

func (m *MockOrderService) ListForUser(ctx context.Context, actor access.Actor) ([]model.Order, error) {
	return m.orders(m.Called(ctx, actor))
}

func (m *MockOrderService) ListAll(ctx context.Context, actor access.Actor) ([]model.Order, error) {
	return m.orders(m.Called(ctx, actor))
}

func (m *MockOrderService) ListPurchasedProducts(ctx context.Context, actor access.Actor) ([]model.Product, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockOrderService) ListForDesigner(ctx context.Context, actor access.Actor) ([]model.Order, error) {
	return m.orders(m.Called(ctx, actor))
}

// MockFeedbackService is a mock implementation of service.FeedbackService.
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) AddComment(ctx context.Context, actor access.Actor, productID uuid.UUID, text string) (*service.CommentThread, error) {
	args := m.Called(ctx, actor, productID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommentThread), args.Error(1)
}

func (m *MockFeedbackService) UpdateComment(ctx context.Context, actor access.Actor, productID, commentID uuid.UUID, text string) (*model.Comment, error) {
	args := m.Called(ctx, actor, productID, commentID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockFeedbackService) RemoveComment(ctx context.Context, actor access.Actor, productID, commentID uuid.UUID) error {
	return m.Called(ctx, actor, productID, commentID).Error(0)
}

func (m *MockFeedbackService) ListComments(ctx context.Context, productID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockFeedbackService) React(ctx context.Context, actor access.Actor, productID uuid.UUID, reaction int, ratings float64) (*model.Product, error) {
	args := m.Called(ctx, actor, productID, reaction, ratings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

var (
	_ service.UserService     = (*MockUserService)(nil)
	_ service.CatalogService  = (*MockCatalogService)(nil)
	_ service.CartService     = (*MockCartService)(nil)
	_ service.OrderService    = (*MockOrderService)(nil)
	_ service.FeedbackService = (*MockFeedbackService)(nil)
)

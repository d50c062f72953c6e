package router

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	slogecho "github.com/samber/slog-echo"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"svgecommerce/internal/auth"
	"svgecommerce/internal/config"
	"svgecommerce/internal/handler"
	"svgecommerce/internal/metrics"
)

// Handlers groups every domain handler the router mounts.
type Handlers struct {
	Users    *handler.UserHandler
	Products *handler.ProductHandler
	Carts    *handler.CartHandler
	Orders   *handler.OrderHandler
	Comments *handler.CommentHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *slog.Logger,
	h Handlers,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) {
	e.HTTPErrorHandler = handler.ErrorHandler(log, jwtService)
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(slogecho.New(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(metrics.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	authn := handler.Authenticate(jwtService, tokenStore)

	loginLimiter := middleware.RateLimiter(
		middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.LoginRateLimit)),
	)

	// Users
	users := api.Group("/user")
	users.POST("/register", h.Users.Register)
	users.POST("/login", h.Users.Login, loginLimiter)
	users.POST("/check-email", h.Users.CheckEmail)
	users.GET("/details/:userId", h.Users.Details)
	users.GET("/followers/:userId", h.Users.Followers)
	users.GET("/authenticate", h.Users.Authenticate, authn)
	users.GET("/details", h.Users.Me, authn)
	users.PUT("/details", h.Users.UpdateDetails, authn)
	users.PATCH("/admin/:userId", h.Users.SetAdmin, authn)
	users.PATCH("/designer", h.Users.SetDesigner, authn)
	users.GET("/orders", h.Users.Orders, authn)
	users.GET("/all-orders", h.Users.AllOrders, authn)
	users.POST("/follow/:userId", h.Users.Follow, authn)
	users.POST("/logout", h.Users.Logout, authn)

	// Products
	products := api.Group("/products")
	products.POST("/active", h.Products.Active)
	products.GET("/search", h.Products.Search)
	products.GET("/all", h.Products.All, authn)
	products.GET("/designer", h.Products.Designer, authn)
	products.GET("/designer/:productId", h.Products.DesignerProduct, authn)
	products.POST("", h.Products.Create, authn)
	products.GET("/:productId", h.Products.Get)
	products.PUT("/:productId", h.Products.Update, authn)
	products.PATCH("/:productId/archive", h.Products.Archive, authn)
	products.PATCH("/:productId/unarchive", h.Products.Unarchive, authn)

	// Cart
	products.GET("/cart", h.Carts.List, authn)
	products.POST("/cart/clear", h.Carts.Clear, authn)
	products.POST("/cart/:productId", h.Carts.Add, authn)
	products.DELETE("/cart/:productId", h.Carts.Remove, authn)

	// Comments and reactions
	products.GET("/:productId/comments", h.Comments.List)
	products.POST("/:productId/comments", h.Comments.Add, authn)
	products.PUT("/:productId/comments/:commentId", h.Comments.Update, authn)
	products.DELETE("/:productId/comments/:commentId", h.Comments.Remove, authn)
	products.POST("/:productId/reactors", h.Comments.React, authn)

	// Orders
	orders := api.Group("/orders", authn)
	orders.GET("", h.Orders.Purchased)
	orders.POST("", h.Orders.Place)
	orders.GET("/admin", h.Orders.Admin)
	orders.GET("/designer", h.Orders.Designer)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

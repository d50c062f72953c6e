package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"svgecommerce/internal/model"
	"svgecommerce/internal/service"
)

// CartHandler handles the caller's shopping cart.
type CartHandler struct {
	carts service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// ClearCartRequest names the products the client believes are in the cart.
type ClearCartRequest struct {
	Products []uuid.UUID `json:"products"`
}

// List godoc
// @Summary List products in the caller's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/cart [get]
func (h *CartHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	products, err := h.carts.ListCartProducts(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	if products == nil {
		products = []model.Product{}
	}
	return ok(c, products)
}

// Clear godoc
// @Summary Empty the caller's cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ClearCartRequest false "Products expected in the cart"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/cart/clear [post]
func (h *CartHandler) Clear(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ClearCartRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.carts.ClearCart(c.Request().Context(), actor, req.Products); err != nil {
		return err
	}
	return ok(c, nil)
}

// Add godoc
// @Summary Add a product to the caller's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/cart/{productId} [post]
func (h *CartHandler) Add(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	cart, err := h.carts.AddToCart(c.Request().Context(), actor, productID)
	if err != nil {
		return err
	}
	return ok(c, cart)
}

// Remove godoc
// @Summary Remove a product from the caller's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/cart/{productId} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	if err := h.carts.RemoveFromCart(c.Request().Context(), actor, productID); err != nil {
		return err
	}
	return ok(c, nil)
}

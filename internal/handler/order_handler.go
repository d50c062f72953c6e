package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"svgecommerce/internal/service"
)

// OrderHandler handles checkout and order listings.
type OrderHandler struct {
	orders service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orders service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// OrderLine identifies one product in a checkout request.
type OrderLine struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// PlaceOrderRequest represents a checkout.
type PlaceOrderRequest struct {
	Products []OrderLine `json:"products" validate:"required,min=1,dive"`
}

// Purchased godoc
// @Summary List products the caller has ordered
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /orders [get]
func (h *OrderHandler) Purchased(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	products, err := h.orders.ListPurchasedProducts(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return list(c, products)
}

// Place godoc
// @Summary Place an order
// @Description All listed products must exist and be active, otherwise nothing is written.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceOrderRequest true "Products to order"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req PlaceOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(req.Products))
	for _, line := range req.Products {
		ids = append(ids, line.ProductID)
	}

	placed, err := h.orders.PlaceOrder(c.Request().Context(), actor, ids)
	if err != nil {
		return err
	}
	return ok(c, placed)
}

// Admin godoc
// @Summary List every order (admin)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /orders/admin [get]
func (h *OrderHandler) Admin(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListAll(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return list(c, orders)
}

// Designer godoc
// @Summary List orders containing the caller's products
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /orders/designer [get]
func (h *OrderHandler) Designer(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListForDesigner(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return list(c, orders)
}

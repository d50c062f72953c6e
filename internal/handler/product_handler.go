package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"svgecommerce/internal/errors"
	"svgecommerce/internal/model"
	"svgecommerce/internal/service"
)

// ProductHandler handles catalog endpoints.
type ProductHandler struct {
	catalog service.CatalogService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(catalog service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// ActiveProductsRequest lists products the client has already shown.
type ActiveProductsRequest struct {
	RetrievedIDs []uuid.UUID `json:"retrieved_ids"`
}

// ImageDataRequest carries the product artwork as data URIs.
type ImageDataRequest struct {
	ResizedImage  string `json:"resized_image" validate:"required"`
	OriginalImage string `json:"original_image"`
}

// CreateProductRequest represents a new product.
type CreateProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description" validate:"required"`
	Price       decimal.Decimal  `json:"price" swaggertype:"number" example:"19.99"`
	ImageData   ImageDataRequest `json:"image_data" validate:"required"`
}

// UpdateProductRequest is a partial product update.
type UpdateProductRequest struct {
	Name        *string           `json:"name" validate:"omitempty,max=255"`
	Description *string           `json:"description"`
	Price       *decimal.Decimal  `json:"price" swaggertype:"number"`
	ImageData   *ImageDataRequest `json:"image_data"`
}

func invalidPrice() error {
	return errors.NewHTTPError(http.StatusBadRequest, "price must not be negative", "VALIDATION_ERROR")
}

// Active godoc
// @Summary Sample active products
// @Description Returns up to 60 active products in random order, skipping the ones already retrieved.
// @Tags products
// @Accept json
// @Produce json
// @Param request body ActiveProductsRequest false "Already retrieved product ids"
// @Success 200 {object} Envelope
// @Router /products/active [post]
func (h *ProductHandler) Active(c echo.Context) error {
	var req ActiveProductsRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	products, err := h.catalog.ListActive(c.Request().Context(), req.RetrievedIDs)
	if err != nil {
		return err
	}
	return list(c, products)
}

// Search godoc
// @Summary Search active products
// @Tags products
// @Produce json
// @Param name query string false "Name fragment"
// @Param sort query string false "high, low, best_selling, latest or oldest"
// @Param filter query string false "Image format, e.g. svg"
// @Success 200 {object} Envelope
// @Router /products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	products, err := h.catalog.Search(c.Request().Context(),
		c.QueryParam("name"), c.QueryParam("sort"), c.QueryParam("filter"))
	if err != nil {
		return err
	}
	return list(c, products)
}

// All godoc
// @Summary List every product, archived included
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/all [get]
func (h *ProductHandler) All(c echo.Context) error {
	products, err := h.catalog.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return list(c, products)
}

// Designer godoc
// @Summary List the caller's own products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active products"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/designer [get]
func (h *ProductHandler) Designer(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))

	products, err := h.catalog.ListByCreator(c.Request().Context(), actor, activeOnly)
	if err != nil {
		return err
	}
	return list(c, products)
}

// DesignerProduct godoc
// @Summary Get one of the caller's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/designer/{productId} [get]
func (h *ProductHandler) DesignerProduct(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	product, err := h.catalog.GetForDesigner(c.Request().Context(), actor, productID)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// Create godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateProductRequest true "Product"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return invalidPrice()
	}

	product, err := h.catalog.Create(c.Request().Context(), actor, service.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageData: model.ImageData{
			ResizedImage:  req.ImageData.ResizedImage,
			OriginalImage: req.ImageData.OriginalImage,
		},
	})
	if err != nil {
		return err
	}
	return ok(c, product)
}

// Get godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Router /products/{productId} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	product, err := h.catalog.Get(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// Update godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body UpdateProductRequest true "Changed fields"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/{productId} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	var req UpdateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Price != nil && req.Price.IsNegative() {
		return invalidPrice()
	}

	changes := service.ProductChanges{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if req.ImageData != nil {
		changes.ImageData = &model.ImageData{
			ResizedImage:  req.ImageData.ResizedImage,
			OriginalImage: req.ImageData.OriginalImage,
		}
	}

	product, err := h.catalog.Update(c.Request().Context(), actor, productID, changes)
	if err != nil {
		return err
	}
	return ok(c, product)
}

// Archive godoc
// @Summary Archive a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/{productId}/archive [patch]
func (h *ProductHandler) Archive(c echo.Context) error {
	return h.setActive(c, false)
}

// Unarchive godoc
// @Summary Unarchive a product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/{productId}/unarchive [patch]
func (h *ProductHandler) Unarchive(c echo.Context) error {
	return h.setActive(c, true)
}

func (h *ProductHandler) setActive(c echo.Context, active bool) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}

	if active {
		err = h.catalog.Unarchive(c.Request().Context(), actor, productID)
	} else {
		err = h.catalog.Archive(c.Request().Context(), actor, productID)
	}
	if err != nil {
		return err
	}
	return ok(c, nil)
}

package handler

import (
	"github.com/labstack/echo/v4"

	"svgecommerce/internal/service"
)

// CommentHandler handles comments and reactions on a product.
type CommentHandler struct {
	feedback service.FeedbackService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(feedback service.FeedbackService) *CommentHandler {
	return &CommentHandler{feedback: feedback}
}

// CommentRequest carries comment text.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

// ReactRequest carries a reaction and rating.
type ReactRequest struct {
	Reaction int     `json:"reaction"`
	Ratings  float64 `json:"ratings"`
}

// List godoc
// @Summary List comments on a product
// @Tags comments
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} Envelope
// @Router /products/{productId}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	comments, err := h.feedback.ListComments(c.Request().Context(), productID)
	if err != nil {
		return err
	}
	return list(c, comments)
}

// Add godoc
// @Summary Comment on a product
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body CommentRequest true "Comment"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/{productId}/comments [post]
func (h *CommentHandler) Add(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	thread, err := h.feedback.AddComment(c.Request().Context(), actor, productID, req.Comment)
	if err != nil {
		return err
	}
	return ok(c, thread)
}

// Update godoc
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param commentId path string true "Comment ID"
// @Param request body CommentRequest true "Comment"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/{productId}/comments/{commentId} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	commentID, err := uuidParam(c, "commentId")
	if err != nil {
		return err
	}
	var req CommentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	comment, err := h.feedback.UpdateComment(c.Request().Context(), actor, productID, commentID, req.Comment)
	if err != nil {
		return err
	}
	return ok(c, comment)
}

// Remove godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/{productId}/comments/{commentId} [delete]
func (h *CommentHandler) Remove(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	commentID, err := uuidParam(c, "commentId")
	if err != nil {
		return err
	}
	if err := h.feedback.RemoveComment(c.Request().Context(), actor, productID, commentID); err != nil {
		return err
	}
	return ok(c, nil)
}

// React godoc
// @Summary React to and rate a product
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param productId path string true "Product ID"
// @Param request body ReactRequest true "Reaction"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /products/{productId}/reactors [post]
func (h *CommentHandler) React(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		return err
	}
	var req ReactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.feedback.React(c.Request().Context(), actor, productID, req.Reaction, req.Ratings)
	if err != nil {
		return err
	}
	return ok(c, product)
}

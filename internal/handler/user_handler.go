package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"svgecommerce/internal/auth"
	"svgecommerce/internal/model"
	"svgecommerce/internal/service"
)

// UserHandler handles account, role and follower endpoints.
type UserHandler struct {
	users  service.UserService
	orders service.OrderService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users service.UserService, orders service.OrderService) *UserHandler {
	return &UserHandler{users: users, orders: orders}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Suffix     string `json:"suffix" validate:"max=20"`
	Email      string `json:"email" validate:"required,email"`
	Address    string `json:"address" validate:"max=255"`
	MobileNo   string `json:"mobile_no" validate:"max=30"`
	Password   string `json:"password" validate:"required,min=6"`
	IsAdmin    bool   `json:"is_admin"`
	IsDesigner bool   `json:"is_designer"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the access token of a successful login.
type LoginResponse struct {
	Access string `json:"access"`
}

// CheckEmailRequest represents an email availability check.
type CheckEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ProfileRequest represents a profile update.
type ProfileRequest struct {
	ProfilePicture string `json:"profile_picture"`
	FirstName      string `json:"first_name" validate:"required,max=100"`
	LastName       string `json:"last_name" validate:"required,max=100"`
	Suffix         string `json:"suffix" validate:"max=20"`
	Address        string `json:"address" validate:"max=255"`
	MobileNo       string `json:"mobile_no" validate:"max=30"`
}

// AuthStatusResponse is returned by the token check.
type AuthStatusResponse struct {
	Auth string `json:"auth" example:"success"`
}

// Authenticate godoc
// @Summary Check the bearer token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthStatusResponse
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/authenticate [get]
func (h *UserHandler) Authenticate(c echo.Context) error {
	return c.JSON(http.StatusOK, AuthStatusResponse{Auth: "success"})
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/register [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Register(c.Request().Context(), service.RegisterInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Suffix:     req.Suffix,
		Email:      req.Email,
		Address:    req.Address,
		MobileNo:   req.MobileNo,
		Password:   req.Password,
		IsAdmin:    req.IsAdmin,
		IsDesigner: req.IsDesigner,
	})
	if err != nil {
		return err
	}
	return ok(c, user)
}

// Login godoc
// @Summary Login user
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, LoginResponse{Access: token})
}

// CheckEmail godoc
// @Summary Check whether an email is registered
// @Tags users
// @Accept json
// @Produce json
// @Param request body CheckEmailRequest true "Email"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Router /user/check-email [post]
func (h *UserHandler) CheckEmail(c echo.Context) error {
	var req CheckEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	taken, err := h.users.CheckEmail(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	if taken {
		return c.JSON(http.StatusOK, Envelope{Body: true, Result: "Email is already registered!"})
	}
	return c.JSON(http.StatusOK, Envelope{Body: false, Result: "Email is not yet registered!"})
}

// Me godoc
// @Summary Get the caller's details
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/details [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.users.Details(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// Details godoc
// @Summary Get a user's details
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Router /user/details/{userId} [get]
func (h *UserHandler) Details(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	user, err := h.users.Details(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// UpdateDetails godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/details [put]
func (h *UserHandler) UpdateDetails(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	update, err := h.users.UpdateDetails(c.Request().Context(), actor.ID, service.ProfileInput{
		ProfilePicture: req.ProfilePicture,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Suffix:         req.Suffix,
		Address:        req.Address,
		MobileNo:       req.MobileNo,
	})
	if err != nil {
		return err
	}
	return ok(c, update)
}

// SetAdmin godoc
// @Summary Promote a user to admin
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/admin/{userId} [patch]
func (h *UserHandler) SetAdmin(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	user, err := h.users.SetAdmin(c.Request().Context(), actor, userID)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// SetDesigner godoc
// @Summary Promote the caller to designer
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/designer [patch]
func (h *UserHandler) SetDesigner(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	promotion, err := h.users.SetDesigner(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return ok(c, promotion)
}

// Orders godoc
// @Summary List the caller's orders
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/orders [get]
func (h *UserHandler) Orders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListForUser(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return list(c, orders)
}

// AllOrders godoc
// @Summary List every order (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/all-orders [get]
func (h *UserHandler) AllOrders(c echo.Context) error {
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

// Follow godoc
// @Summary Follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User to follow"
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/follow/{userId} [post]
func (h *UserHandler) Follow(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	followingID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	edge, err := h.users.Follow(c.Request().Context(), actor, followingID)
	if err != nil {
		return err
	}
	return ok(c, edge)
}

// Followers godoc
// @Summary List a user's followers
// @Tags users
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} Envelope
// @Router /user/followers/{userId} [get]
func (h *UserHandler) Followers(c echo.Context) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	edges, err := h.users.ListFollowers(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if edges == nil {
		edges = []model.Follower{}
	}
	return ok(c, edges)
}

// Logout godoc
// @Summary Revoke the presented token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope
// @Failure 401 {object} errors.AuthFailedResponse
// @Router /user/logout [post]
func (h *UserHandler) Logout(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	if err := h.users.Logout(c.Request().Context(), claims.ID, auth.RemainingTTL(claims)); err != nil {
		return err
	}
	return ok(c, nil)
}

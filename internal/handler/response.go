package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"svgecommerce/internal/access"
	"svgecommerce/internal/auth"
	"svgecommerce/internal/errors"
)

// Envelope is the body of every domain response. Body is true or false for
// a normal outcome and the reason text when the request was rejected.
type Envelope struct {
	Body   interface{} `json:"body" swaggertype:"string" example:"true"`
	Result interface{} `json:"result,omitempty"`
}

// ok writes a successful envelope.
func ok(c echo.Context, result interface{}) error {
	return c.JSON(http.StatusOK, Envelope{Body: true, Result: result})
}

// list writes a list envelope whose body reports whether anything was found.
func list[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, Envelope{Body: len(items) > 0, Result: items})
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return errors.NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	}
	return nil
}

// uuidParam parses a path parameter as a UUID.
func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.NewHTTPError(http.StatusBadRequest, "invalid "+name, "INVALID_UUID")
	}
	return id, nil
}

// claimsFrom returns the claims the auth middleware stored on the context.
func claimsFrom(c echo.Context) (*auth.Claims, error) {
	claims, isClaims := c.Get(ContextKeyClaims).(*auth.Claims)
	if !isClaims || claims == nil {
		return nil, errors.ErrUnauthorized
	}
	return claims, nil
}

// actorFrom builds the caller from the verified token.
func actorFrom(c echo.Context) (access.Actor, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return access.Actor{}, err
	}
	return access.Actor{
		ID:         claims.UserID,
		Email:      claims.Email,
		IsAdmin:    claims.IsAdmin,
		IsDesigner: claims.IsDesigner,
		TokenID:    claims.ID,
	}, nil
}

package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"svgecommerce/internal/auth"
	"svgecommerce/internal/errors"
	"svgecommerce/internal/metrics"
)

// ContextKeyClaims is where Authenticate stores the *auth.Claims.
const ContextKeyClaims = "user"

// Authenticate requires an "Authorization: Bearer <token>" header carrying a
// valid token that has not been revoked.
func Authenticate(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKeyClaims,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.Validate(token)
			if err != nil {
				return nil, err
			}
			revoked, err := tokenStore.IsRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, fmt.Errorf("token %s revoked", claims.ID)
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return fmt.Errorf("%w: %v", errors.ErrUnauthorized, err)
		},
	})
}

// ErrorHandler is the single place where errors become responses.
// Rejections become a failed envelope, authentication failures a 401 and
// anything unexpected a generic 500 that is logged but never echoed.
// Faults are logged with the caller's user ID when a valid token was sent,
// including on public routes.
func ErrorHandler(log *slog.Logger, jwtService *auth.JWTService) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := errors.MapErrorToHTTP(err)
		var writeErr error
		switch {
		case httpErr.Code == "REJECTED":
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.Rejections.WithLabelValues(route).Inc()
			writeErr = c.JSON(http.StatusOK, Envelope{Body: httpErr.Message})
		case httpErr.StatusCode == http.StatusUnauthorized:
			writeErr = c.JSON(http.StatusUnauthorized, errors.AuthFailedResponse{Auth: "failed"})
		case httpErr.StatusCode >= http.StatusInternalServerError:
			log.ErrorContext(c.Request().Context(), "request failed",
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.String("user_id", requestUserID(c, jwtService)),
				slog.Any("error", err))
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		default:
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}

		if writeErr != nil {
			log.WarnContext(c.Request().Context(), "write error response", slog.Any("error", writeErr))
		}
	}
}

// requestUserID identifies the caller on a best-effort basis: from the claims
// Authenticate stored, else by decoding the bearer token. Empty when unknown.
func requestUserID(c echo.Context, jwtService *auth.JWTService) string {
	if claims, err := claimsFrom(c); err == nil {
		return claims.UserID.String()
	}
	if jwtService == nil {
		return ""
	}
	token, found := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
	if !found {
		return ""
	}
	if claims := jwtService.Decode(token); claims != nil {
		return claims.UserID.String()
	}
	return ""
}

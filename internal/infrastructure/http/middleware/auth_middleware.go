package middleware

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-digest/errors"
	"github.com/johnquangdev/meeting-digest/pkg/jwt"
)

const (
	// ClaimsContextKey holds the validated *jwt.Claims
	ClaimsContextKey = "claims"
	// SubjectContextKey holds the token subject
	SubjectContextKey = "subject"

	accessTokenCookie = "access_token"
)

type errorBody struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// EchoAuth returns an Echo middleware that validates the bearer token (or the
// access_token cookie) and stores its claims in the Echo context
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return respondError(c, errors.ErrUnauthenticated())
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return respondError(c, errors.ErrTokenExpired())
				}
				return respondError(c, errors.ErrInvalidToken())
			}

			c.Set(ClaimsContextKey, claims)
			c.Set(SubjectContextKey, claims.Subject)

			return next(c)
		}
	}
}

// RequireScope rejects requests whose token does not grant scope.
// It must run after EchoAuth.
func RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := GetClaims(c)
			if !ok {
				return respondError(c, errors.ErrUnauthenticated())
			}
			if !claims.HasScope(scope) {
				return c.JSON(http.StatusForbidden, errorBody{
					Code:    errors.ErrorCode_UNAUTHENTICATED,
					Message: "Insufficient permissions",
				})
			}
			return next(c)
		}
	}
}

// GetClaims retrieves the claims set by EchoAuth
func GetClaims(c echo.Context) (*jwt.Claims, bool) {
	claims, ok := c.Get(ClaimsContextKey).(*jwt.Claims)
	return claims, ok
}

func extractToken(c echo.Context) string {
	// Expected format: "Bearer <token>"
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie(accessTokenCookie); err == nil {
		return cookie.Value
	}

	return ""
}

func respondError(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, errorBody{Code: appErr.Code, Message: appErr.Message})
}

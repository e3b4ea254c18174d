package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/ghost-admin/internal/core/domain"
)

// ContextKeyID holds the kid of the admin token that authenticated the request.
const ContextKeyID = "admin_key_id"

// AdminToken accepts the same "Authorization: Ghost <token>" tokens Ghost's
// Admin API accepts, signed with the given "<id>:<hex-secret>" key.
func AdminToken(credential string) (echo.MiddlewareFunc, error) {
	cred, err := domain.ParseCredential(credential)
	if err != nil {
		return nil, fmt.Errorf("admin token middleware: %w", err)
	}

	keyFunc := func(token *jwt.Token) (any, error) {
		if kid, _ := token.Header["kid"].(string); kid != cred.ID {
			return nil, jwt.ErrTokenUnverifiable
		}
		return cred.Secret, nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "ghost") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			tkn, err := jwt.Parse(parts[1], keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
				jwt.WithAudience("/admin/"),
				jwt.WithExpirationRequired(),
				jwt.WithIssuedAt(),
			)
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextKeyID, cred.ID)
			return next(c)
		}
	}, nil
}

package http

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by the auth middleware for downstream handlers.
const (
	ctxActorID   = "actor_id"
	ctxActorRole = "actor_role"
)

// Actor roles issued by the identity collaborator.
const (
	RoleProvider = "provider"
	RoleClient   = "client"
)

type authClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// JWTMiddleware validates the bearer token and exposes the authenticated
// subject and role on the echo context. Tokens are HS256, issued by the
// identity collaborator.
func JWTMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims := &authClaims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ctxActorID, claims.Subject)
			c.Set(ctxActorRole, claims.Role)
			return next(c)
		}
	}
}

// RequireRole rejects requests whose authenticated role is not in roles.
// With auth disabled (no middleware ran) the check is skipped.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxActorRole).(string)
			if !ok || role == "" {
				return next(c)
			}
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}

func actorID(c echo.Context) string {
	id, _ := c.Get(ctxActorID).(string)
	return id
}

func actorRole(c echo.Context) string {
	role, _ := c.Get(ctxActorRole).(string)
	return role
}

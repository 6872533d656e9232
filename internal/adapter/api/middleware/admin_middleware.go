package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
)

type AdminMiddleware struct {
	store repository.ProjectionStore
}

func NewAdminMiddleware(store repository.ProjectionStore) *AdminMiddleware {
	return &AdminMiddleware{
		store: store,
	}
}

// AdminOnly rejects callers whose user projection lacks the admin flag.
// Runs after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		uid, ok := c.Get("uid").(string)
		if !ok || uid == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		var user entity.User
		if err := m.store.Get(c.Request().Context(), repository.UserPath(uid), &user); err != nil {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}
		if !user.IsAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}

		return next(c)
	}
}

package router

import (
	"usedmarket/internal/adapter/api/handler"
	"usedmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupUserRouter(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	auth := e.Group("/v1/auth")
	auth.POST("/register", userHandler.Register)

	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)
	users.GET("/me", userHandler.Me)
	users.PATCH("/me", userHandler.UpdateMe)
}

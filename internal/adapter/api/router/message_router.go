package router

import (
	"usedmarket/internal/adapter/api/handler"
	"usedmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupMessageRouter(
	e *echo.Echo,
	messagingHandler *handler.MessagingHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	threads := e.Group("/v1/threads")
	threads.Use(authMiddleware.Authenticate)
	threads.POST("", messagingHandler.ContactSeller)
	threads.GET("", messagingHandler.ListMyThreads)
	threads.GET("/:id/messages", messagingHandler.ListThreadMessages)
	threads.POST("/:id/messages", messagingHandler.SendMessage)
	threads.DELETE("/:id", messagingHandler.RemoveThread)
}

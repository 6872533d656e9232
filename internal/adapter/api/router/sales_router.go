package router

import (
	"usedmarket/internal/adapter/api/handler"
	"usedmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupSalesRouter(
	e *echo.Echo,
	salesHandler *handler.SalesHandler,
	queryHandler *handler.QueryHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	sales := e.Group("/v1/sales")
	sales.Use(authMiddleware.Authenticate)
	sales.POST("", salesHandler.ExecuteSale)

	purchases := e.Group("/v1/purchases")
	purchases.Use(authMiddleware.Authenticate)
	purchases.GET("", queryHandler.ListMyPurchases)
}

package router

import (
	"usedmarket/internal/adapter/api/handler"
	"usedmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupProductRouter(
	e *echo.Echo,
	queryHandler *handler.QueryHandler,
	catalogHandler *handler.CatalogHandler,
	commentHandler *handler.CommentHandler,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
) {
	products := e.Group("/v1/products")
	products.GET("", queryHandler.ListProducts)
	products.GET("/search", queryHandler.SearchProducts)
	products.GET("/:id", queryHandler.GetProduct)
	products.GET("/:id/comments", commentHandler.ListComments)
	products.POST("/:id/comments", commentHandler.AddComment, authMiddleware.Authenticate)
	products.PUT("/:id/comments/:commentId", commentHandler.EditComment, authMiddleware.Authenticate)
	products.DELETE("/:id/comments/:commentId", commentHandler.RemoveComment, authMiddleware.Authenticate)

	myProducts := e.Group("/v1/my-products")
	myProducts.Use(authMiddleware.Authenticate)
	myProducts.POST("", catalogHandler.CreateListing)
	myProducts.PUT("/:id", catalogHandler.EditListing)
	myProducts.GET("/listings", queryHandler.ListMyListings)

	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)
	admin.GET("/users/:id", queryHandler.GetUser)
}

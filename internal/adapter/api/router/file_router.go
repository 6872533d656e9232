package router

import (
	"usedmarket/internal/adapter/api/handler"
	"usedmarket/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupFileRouter(
	e *echo.Echo,
	fileHandler *handler.FileHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)
	files.POST("/upload", fileHandler.Upload)
	files.POST("/upload-batch", fileHandler.UploadBatch)
}

package handler

import (
	"mime/multipart"

	"usedmarket/internal/infrastructure/storage"
	"usedmarket/pkg/errors"
	"usedmarket/pkg/response"

	"github.com/labstack/echo/v4"
)

const productImageFolder = "usedProducts"

type FileHandler struct {
	imageHost *storage.ImageHost
}

func NewFileHandler(imageHost *storage.ImageHost) *FileHandler {
	return &FileHandler{
		imageHost: imageHost,
	}
}

// Upload accepts one image and returns its hosted URL.
func (h *FileHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("file is required", err))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("failed to read file", err))
	}
	defer src.Close()

	url, err := h.imageHost.Upload(
		c.Request().Context(),
		src,
		fileHeader.Header.Get("Content-Type"),
		productImageFolder,
	)
	if err != nil {
		return response.Error(c, errors.Internal("Image upload failed", err))
	}

	return response.Created(c, map[string]string{"url": url})
}

// UploadBatch accepts N images and returns N URLs in input order; any
// failure rejects the whole batch.
func (h *FileHandler) UploadBatch(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("multipart form is required", err))
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return response.Error(c, errors.BadRequest("at least one file is required", nil))
	}

	files := make([]storage.ImageFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			return response.Error(c, errors.BadRequest("failed to read file", err))
		}
		opened = append(opened, src)
		files = append(files, storage.ImageFile{
			Reader:      src,
			ContentType: header.Header.Get("Content-Type"),
		})
	}

	urls, err := h.imageHost.UploadBatch(c.Request().Context(), files, productImageFolder)
	if err != nil {
		return response.Error(c, errors.Internal("Batch image upload failed", err))
	}

	return response.Created(c, map[string][]string{"urls": urls})
}

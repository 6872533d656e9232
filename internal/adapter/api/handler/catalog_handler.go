package handler

import (
	"usedmarket/internal/domain/entity"
	"usedmarket/internal/usecase"
	"usedmarket/pkg/response"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalogUseCase *usecase.CatalogUseCase
}

func NewCatalogHandler(catalogUseCase *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{
		catalogUseCase: catalogUseCase,
	}
}

type listingRequest struct {
	Name           string   `json:"productName" validate:"required"`
	Price          int64    `json:"price" validate:"gte=0"`
	Quantity       int      `json:"quantity" validate:"gte=0"`
	Images         []string `json:"images"`
	Description    string   `json:"description"`
	Condition      string   `json:"conditions" validate:"omitempty,oneof=new used"`
	DeliveryCharge string   `json:"deliveryCharge" validate:"omitempty,oneof=include exclude"`
}

func (r *listingRequest) toProduct(id, sellerID string) *entity.Product {
	return &entity.Product{
		ID:             id,
		Seller:         entity.SellerSummary{ID: sellerID},
		Images:         r.Images,
		Name:           r.Name,
		Price:          r.Price,
		Quantity:       r.Quantity,
		Description:    r.Description,
		Condition:      r.Condition,
		DeliveryCharge: r.DeliveryCharge,
	}
}

func (h *CatalogHandler) CreateListing(c echo.Context) error {
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	product, err := h.catalogUseCase.CreateListing(
		c.Request().Context(),
		req.toProduct("", sellerID),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *CatalogHandler) EditListing(c echo.Context) error {
	id := c.Param("id")

	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	sellerID := c.Get("uid").(string)

	product, err := h.catalogUseCase.EditListing(
		c.Request().Context(),
		req.toProduct(id, sellerID),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

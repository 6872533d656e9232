package handler

import (
	"usedmarket/internal/usecase"
	"usedmarket/pkg/response"

	"github.com/labstack/echo/v4"
)

type SalesHandler struct {
	salesUseCase *usecase.SalesUseCase
}

func NewSalesHandler(salesUseCase *usecase.SalesUseCase) *SalesHandler {
	return &SalesHandler{
		salesUseCase: salesUseCase,
	}
}

type executeSaleRequest struct {
	ProductID  string `json:"productId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	PurchaseID string `json:"purchaseId"` // set on retry to stay idempotent
}

func (h *SalesHandler) ExecuteSale(c echo.Context) error {
	var req executeSaleRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	purchase, err := h.salesUseCase.ExecuteSale(c.Request().Context(), &usecase.ExecuteSaleInput{
		PurchaseID: req.PurchaseID,
		BuyerID:    buyerID,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, purchase)
}

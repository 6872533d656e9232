package handler

import (
	"usedmarket/internal/usecase"
	"usedmarket/pkg/response"
	"usedmarket/pkg/utils"

	"github.com/labstack/echo/v4"
)

type QueryHandler struct {
	queryUseCase *usecase.QueryUseCase
}

func NewQueryHandler(queryUseCase *usecase.QueryUseCase) *QueryHandler {
	return &QueryHandler{
		queryUseCase: queryUseCase,
	}
}

func (h *QueryHandler) ListProducts(c echo.Context) error {
	products, err := h.queryUseCase.ListProducts(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	pagination := utils.GetPaginationParams(c)
	start, end := utils.Window(len(products), pagination.Page, pagination.PageSize)

	return response.Paginated(c, products[start:end], int64(len(products)), pagination.Page, pagination.PageSize)
}

func (h *QueryHandler) SearchProducts(c echo.Context) error {
	query := c.QueryParam("q")

	products, err := h.queryUseCase.SearchProducts(c.Request().Context(), query)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *QueryHandler) GetProduct(c echo.Context) error {
	product, err := h.queryUseCase.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *QueryHandler) ListMyPurchases(c echo.Context) error {
	buyerID := c.Get("uid").(string)

	purchases, err := h.queryUseCase.ListPurchases(c.Request().Context(), buyerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, purchases)
}

func (h *QueryHandler) ListMyListings(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	listings, err := h.queryUseCase.ListSellerListings(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

// GetUser is admin-only: it exposes another user's full projection,
// counters included.
func (h *QueryHandler) GetUser(c echo.Context) error {
	user, err := h.queryUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}

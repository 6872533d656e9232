package handler

import (
	"usedmarket/internal/usecase"
	"usedmarket/pkg/response"

	"github.com/labstack/echo/v4"
)

type MessagingHandler struct {
	messagingUseCase *usecase.MessagingUseCase
}

func NewMessagingHandler(messagingUseCase *usecase.MessagingUseCase) *MessagingHandler {
	return &MessagingHandler{
		messagingUseCase: messagingUseCase,
	}
}

type contactSellerRequest struct {
	ProductID string `json:"productId" validate:"required"`
	SellerID  string `json:"sellerId" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// ContactSeller reuses the caller's existing thread for the product or
// starts a new one.
func (h *MessagingHandler) ContactSeller(c echo.Context) error {
	var req contactSellerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	thread, created, err := h.messagingUseCase.ContactSeller(
		c.Request().Context(),
		buyerID,
		req.SellerID,
		req.ProductID,
	)
	if err != nil {
		return response.Error(c, err)
	}

	if created {
		return response.Created(c, thread)
	}
	return response.Success(c, thread)
}

func (h *MessagingHandler) ListMyThreads(c echo.Context) error {
	userID := c.Get("uid").(string)

	summaries, err := h.messagingUseCase.ThreadSummaries(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summaries)
}

func (h *MessagingHandler) ListThreadMessages(c echo.Context) error {
	messages, err := h.messagingUseCase.ListThreadMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *MessagingHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	senderID := c.Get("uid").(string)

	message, err := h.messagingUseCase.SendMessage(
		c.Request().Context(),
		c.Param("id"),
		senderID,
		req.Content,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessagingHandler) RemoveThread(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.messagingUseCase.RemoveThread(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Thread removed",
	})
}

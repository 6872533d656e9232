package handler

import (
	"usedmarket/internal/usecase"
	"usedmarket/pkg/response"

	"github.com/labstack/echo/v4"
)

type CommentHandler struct {
	commentUseCase *usecase.CommentUseCase
}

func NewCommentHandler(commentUseCase *usecase.CommentUseCase) *CommentHandler {
	return &CommentHandler{
		commentUseCase: commentUseCase,
	}
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (h *CommentHandler) AddComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	comment, err := h.commentUseCase.AddComment(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, comment)
}

func (h *CommentHandler) ListComments(c echo.Context) error {
	comments, err := h.commentUseCase.ListComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, comments)
}

func (h *CommentHandler) EditComment(c echo.Context) error {
	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	comment, err := h.commentUseCase.EditComment(
		c.Request().Context(),
		c.Param("id"),
		c.Param("commentId"),
		userID,
		req.Content,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, comment)
}

func (h *CommentHandler) RemoveComment(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.commentUseCase.RemoveComment(
		c.Request().Context(),
		c.Param("id"),
		c.Param("commentId"),
		userID,
	); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Comment removed",
	})
}

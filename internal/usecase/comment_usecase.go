package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/pkg/errors"
)

// CommentUseCase owns a product's public comment board. Comments live in
// their own collection keyed by product; no counters or other projections
// derive from them, so every mutation is a single-path write.
type CommentUseCase struct {
	store repository.ProjectionStore
}

func NewCommentUseCase(store repository.ProjectionStore) *CommentUseCase {
	return &CommentUseCase{
		store: store,
	}
}

// AddComment posts a comment with the author's current summary embedded.
func (uc *CommentUseCase) AddComment(ctx context.Context, productID, userID, content string) (*entity.Comment, error) {
	if content == "" {
		return nil, errors.Validation("comment content is required", nil)
	}

	var product entity.Product
	if err := uc.store.Get(ctx, repository.ProductPath(productID), &product); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Product", nil)
		}
		return nil, err
	}

	var author entity.User
	if err := uc.store.Get(ctx, repository.UserPath(userID), &author); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("User", nil)
		}
		return nil, err
	}

	comment := &entity.Comment{
		CommentID: uuid.New().String(),
		ProductID: productID,
		UserID:    author.ID,
		Username:  author.Username,
		Avatar:    author.Avatar,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.store.Set(ctx, repository.CommentPath(productID, comment.CommentID), comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments returns the product's comments, newest first. A product
// with no comments yields an empty slice.
func (uc *CommentUseCase) ListComments(ctx context.Context, productID string) ([]entity.Comment, error) {
	var raw map[string]entity.Comment
	if err := uc.store.Get(ctx, repository.CommentListPath(productID), &raw); err != nil {
		if errors.IsNotFound(err) {
			return []entity.Comment{}, nil
		}
		return nil, err
	}

	comments := make([]entity.Comment, 0, len(raw))
	for _, comment := range raw {
		comments = append(comments, comment)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}

// EditComment replaces the comment's content. Only the author may edit.
func (uc *CommentUseCase) EditComment(ctx context.Context, productID, commentID, userID, content string) (*entity.Comment, error) {
	if content == "" {
		return nil, errors.Validation("comment content is required", nil)
	}

	var comment entity.Comment
	if err := uc.store.Get(ctx, repository.CommentPath(productID, commentID), &comment); err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("Comment", nil)
		}
		return nil, err
	}
	if comment.UserID != userID {
		return nil, errors.Forbidden("Only the author can edit a comment", nil)
	}

	comment.Content = content
	if err := uc.store.Set(ctx, repository.CommentPath(productID, commentID), comment); err != nil {
		return nil, err
	}

	return &comment, nil
}

// RemoveComment deletes the comment. Only the author may remove it.
func (uc *CommentUseCase) RemoveComment(ctx context.Context, productID, commentID, userID string) error {
	var comment entity.Comment
	if err := uc.store.Get(ctx, repository.CommentPath(productID, commentID), &comment); err != nil {
		if errors.IsNotFound(err) {
			return errors.NotFound("Comment", nil)
		}
		return err
	}
	if comment.UserID != userID {
		return errors.Forbidden("Only the author can remove a comment", nil)
	}

	return uc.store.Delete(ctx, repository.CommentPath(productID, commentID))
}

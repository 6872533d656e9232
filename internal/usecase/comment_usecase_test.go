package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/pkg/errors"
)

func setupComments(t *testing.T) (*CommentUseCase, repository.ProjectionStore) {
	t.Helper()

	store := newTestStore()
	seedUser(t, store, testSeller())
	seedUser(t, store, testBuyer())
	seedProduct(t, store, "prod-1", "Folding Bike", time.Now().UTC())

	return NewCommentUseCase(store), store
}

func TestAddCommentEmbedsAuthorSummary(t *testing.T) {
	uc, store := setupComments(t)
	ctx := context.Background()

	comment, err := uc.AddComment(ctx, "prod-1", "buyer-1", "Does it fold fully?")
	require.NoError(t, err)
	assert.NotEmpty(t, comment.CommentID)
	assert.Equal(t, "budi", comment.Username)
	assert.Equal(t, "prod-1", comment.ProductID)

	var stored entity.Comment
	require.NoError(t, store.Get(ctx, repository.CommentPath("prod-1", comment.CommentID), &stored))
	assert.Equal(t, "Does it fold fully?", stored.Content)
}

func TestAddCommentUnknownProduct(t *testing.T) {
	uc, _ := setupComments(t)

	_, err := uc.AddComment(context.Background(), "missing", "buyer-1", "hello")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestAddCommentEmptyContent(t *testing.T) {
	uc, _ := setupComments(t)

	_, err := uc.AddComment(context.Background(), "prod-1", "buyer-1", "")
	assert.True(t, errors.IsValidation(err))
}

func TestListCommentsNewestFirst(t *testing.T) {
	uc, store := setupComments(t)
	ctx := context.Background()
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	for _, c := range []entity.Comment{
		{CommentID: "c1", Content: "Oldest", CreatedAt: base},
		{CommentID: "c2", Content: "Newest", CreatedAt: base.Add(time.Hour)},
	} {
		c.ProductID = "prod-1"
		c.UserID = "buyer-1"
		require.NoError(t, store.Set(ctx, repository.CommentPath("prod-1", c.CommentID), c))
	}

	comments, err := uc.ListComments(ctx, "prod-1")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Newest", comments[0].Content)
}

func TestListCommentsEmpty(t *testing.T) {
	uc, _ := setupComments(t)

	comments, err := uc.ListComments(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestEditCommentAuthorOnly(t *testing.T) {
	uc, _ := setupComments(t)
	ctx := context.Background()

	comment, err := uc.AddComment(ctx, "prod-1", "buyer-1", "first draft")
	require.NoError(t, err)

	edited, err := uc.EditComment(ctx, "prod-1", comment.CommentID, "buyer-1", "final draft")
	require.NoError(t, err)
	assert.Equal(t, "final draft", edited.Content)

	_, err = uc.EditComment(ctx, "prod-1", comment.CommentID, "seller-1", "hijacked")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestRemoveCommentAuthorOnly(t *testing.T) {
	uc, store := setupComments(t)
	ctx := context.Background()

	comment, err := uc.AddComment(ctx, "prod-1", "buyer-1", "gone soon")
	require.NoError(t, err)

	err = uc.RemoveComment(ctx, "prod-1", comment.CommentID, "seller-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	require.NoError(t, uc.RemoveComment(ctx, "prod-1", comment.CommentID, "buyer-1"))

	var stored entity.Comment
	assert.True(t, errors.IsNotFound(store.Get(ctx, repository.CommentPath("prod-1", comment.CommentID), &stored)))
}

package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memstore "usedmarket/internal/adapter/repository"
	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/pkg/errors"
)

func setupMessaging(t *testing.T) (*MessagingUseCase, *messagingDeps) {
	t.Helper()

	store := newTestStore()
	pusher := newCapturingPusher()
	hook := newCapturingHook()

	seedUser(t, store, testSeller())
	seedUser(t, store, testBuyer())

	uc := NewMessagingUseCase(store, newTestLocks(), pusher, hook)
	return uc, &messagingDeps{store: store, pusher: pusher, hook: hook}
}

type messagingDeps struct {
	store  *memstore.MemoryProjectionStore
	pusher *capturingPusher
	hook   *capturingHook
}

func TestContactSellerCreatesThreadOnce(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	thread, created, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.SalesStatusInitialized, thread.SalesStatus)
	assert.Equal(t, "prod-1", thread.ProductID)

	// Both participants' thread lists gained the id in the same write.
	assert.Equal(t, []string{thread.ID}, readUser(t, deps.store, "buyer-1").ListMessages)
	assert.Equal(t, []string{thread.ID}, readUser(t, deps.store, "seller-1").ListMessages)
	assert.Equal(t, []string{thread.ID}, deps.hook.messages["buyer-1"])

	// A second contact about the same product reuses the thread.
	again, created, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, thread.ID, again.ID)
	assert.Len(t, readUser(t, deps.store, "buyer-1").ListMessages, 1)
}

func TestContactSellerDistinctProductsGetDistinctThreads(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	first, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)
	second, created, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-2")
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Len(t, readUser(t, deps.store, "buyer-1").ListMessages, 2)
}

func TestStartThreadRejectedWriteLeavesNothing(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	deps.store.FailNextMulti()
	_, err := uc.StartThread(ctx, "prod-1", "seller-1", "buyer-1")
	require.Error(t, err)

	assert.Empty(t, readUser(t, deps.store, "buyer-1").ListMessages)
	assert.Empty(t, readUser(t, deps.store, "seller-1").ListMessages)
}

func TestStartThreadValidation(t *testing.T) {
	uc, _ := setupMessaging(t)

	_, err := uc.StartThread(context.Background(), "", "seller-1", "buyer-1")
	assert.True(t, errors.IsValidation(err))
}

func TestSendMessageDeliversToBothParticipants(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	thread, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)

	message, err := uc.SendMessage(ctx, thread.ID, "buyer-1", "Is the bike still available?")
	require.NoError(t, err)
	assert.Equal(t, "buyer-1", message.SenderID)

	require.Len(t, deps.pusher.sent["buyer-1"], 1)
	require.Len(t, deps.pusher.sent["seller-1"], 1)

	var payload struct {
		ThreadID string         `json:"threadId"`
		Key      string         `json:"key"`
		Message  entity.Message `json:"message"`
	}
	require.NoError(t, json.Unmarshal(deps.pusher.sent["seller-1"][0], &payload))
	assert.Equal(t, thread.ID, payload.ThreadID)
	assert.NotEmpty(t, payload.Key)
	assert.Equal(t, "Is the bike still available?", payload.Message.Content)
}

func TestSendMessageNonParticipantForbidden(t *testing.T) {
	uc, _ := setupMessaging(t)
	ctx := context.Background()

	thread, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, thread.ID, "stranger", "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestSendMessageEmptyContentRejected(t *testing.T) {
	uc, _ := setupMessaging(t)

	_, err := uc.SendMessage(context.Background(), "any", "buyer-1", "")
	assert.True(t, errors.IsValidation(err))
}

func TestListThreadMessagesSortedByTimestamp(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	thread, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)

	// Seed out of order; the listing must come back timestamp-ascending
	// regardless of insertion or key order.
	base := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	for _, m := range []entity.Message{
		{SenderID: "seller-1", Content: "third", Timestamp: base.Add(2 * time.Minute)},
		{SenderID: "buyer-1", Content: "first", Timestamp: base},
		{SenderID: "buyer-1", Content: "second", Timestamp: base.Add(time.Minute)},
	} {
		_, err := deps.store.Push(ctx, repository.ThreadMessagesPath(thread.ID), m)
		require.NoError(t, err)
	}

	resolved, err := uc.ListThreadMessages(ctx, thread.ID)
	require.NoError(t, err)
	require.Len(t, resolved, 3)

	assert.Equal(t, "first", resolved[0].Content)
	assert.Equal(t, "second", resolved[1].Content)
	assert.Equal(t, "third", resolved[2].Content)

	// Senders are joined with their user records.
	assert.Equal(t, "budi", resolved[0].SenderName)
	assert.Equal(t, "ayu", resolved[2].SenderName)
}

func TestListThreadMessagesEmptyThread(t *testing.T) {
	uc, _ := setupMessaging(t)
	ctx := context.Background()

	thread, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)

	resolved, err := uc.ListThreadMessages(ctx, thread.ID)
	require.NoError(t, err)
	assert.NotNil(t, resolved)
	assert.Empty(t, resolved)
}

func TestRemoveThreadRepairsBothParticipants(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	keep, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)
	doomed, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-2")
	require.NoError(t, err)

	require.NoError(t, uc.RemoveThread(ctx, "buyer-1", doomed.ID))

	var thread entity.MessageThread
	assert.True(t, errors.IsNotFound(deps.store.Get(ctx, repository.ThreadPath(doomed.ID), &thread)))

	// Both sides lose the id, not just the initiator's.
	assert.Equal(t, []string{keep.ID}, readUser(t, deps.store, "buyer-1").ListMessages)
	assert.Equal(t, []string{keep.ID}, readUser(t, deps.store, "seller-1").ListMessages)
	assert.Equal(t, []string{keep.ID}, deps.hook.messages["buyer-1"])
}

func TestRemoveThreadNonParticipantForbidden(t *testing.T) {
	uc, _ := setupMessaging(t)
	ctx := context.Background()

	thread, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)

	err = uc.RemoveThread(ctx, "stranger", thread.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestFindThreadSkipsDanglingReferences(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	thread, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)

	// A stale id from an old removal sits in front of the live thread.
	require.NoError(t, deps.store.Set(ctx, repository.UserListMessagesPath("buyer-1"), []string{"ghost-thread", thread.ID}))

	found, err := uc.FindThreadByProduct(ctx, "buyer-1", "prod-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, thread.ID, found.ID)
}

func TestFindThreadAbsentBuyer(t *testing.T) {
	uc, _ := setupMessaging(t)

	found, err := uc.FindThreadByProduct(context.Background(), "nobody", "prod-1")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestThreadSummariesJoinProducts(t *testing.T) {
	uc, deps := setupMessaging(t)
	ctx := context.Background()

	catalog := NewCatalogUseCase(deps.store, newTestLocks(), nil, nil, nil)
	product := testProduct("seller-1", 4)
	_, err := catalog.CreateListing(ctx, product)
	require.NoError(t, err)

	_, _, err = uc.ContactSeller(ctx, "buyer-1", "seller-1", product.ID)
	require.NoError(t, err)

	// A thread about a since-vanished product is skipped, not an error.
	_, _, err = uc.ContactSeller(ctx, "buyer-1", "seller-1", "vanished-product")
	require.NoError(t, err)

	summaries, err := uc.ThreadSummaries(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Folding Bike", summaries[0].ProductName)
	assert.Equal(t, 4, summaries[0].Quantity)
	assert.Equal(t, "ayu", summaries[0].Seller.Username)
}

// The contact flow end to end: first contact creates the thread, messages
// flow both ways, and a later contact about the same product lands on the
// same history.
func TestContactFlowReusesHistory(t *testing.T) {
	uc, _ := setupMessaging(t)
	ctx := context.Background()

	thread, created, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)
	require.True(t, created)

	_, err = uc.SendMessage(ctx, thread.ID, "buyer-1", "Is this still for sale?")
	require.NoError(t, err)
	_, err = uc.SendMessage(ctx, thread.ID, "seller-1", "Yes, pickup only.")
	require.NoError(t, err)

	reused, created, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, thread.ID, reused.ID)

	history, err := uc.ListThreadMessages(ctx, reused.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Is this still for sale?", history[0].Content)
	assert.Equal(t, "Yes, pickup only.", history[1].Content)
}

// A removal and a new contact racing over the same participants rewrite
// the same listMessages arrays. Both must serialize on the user locks so
// the lists end exact whichever order wins.
func TestConcurrentContactAndRemoveKeepThreadLists(t *testing.T) {
	ctx := context.Background()

	for round := 0; round < 50; round++ {
		uc, deps := setupMessaging(t)

		doomed, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-old")
		require.NoError(t, err)

		var created *entity.MessageThread
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, uc.RemoveThread(ctx, "buyer-1", doomed.ID))
		}()
		go func() {
			defer wg.Done()
			thread, _, err := uc.ContactSeller(ctx, "buyer-1", "seller-1", "prod-new")
			assert.NoError(t, err)
			created = thread
		}()
		wg.Wait()

		require.NotNil(t, created)
		assert.Equal(t, []string{created.ID}, readUser(t, deps.store, "buyer-1").ListMessages)
		assert.Equal(t, []string{created.ID}, readUser(t, deps.store, "seller-1").ListMessages)
	}
}

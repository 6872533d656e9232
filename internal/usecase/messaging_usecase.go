package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/internal/infrastructure/lock"
	"usedmarket/pkg/errors"
	"usedmarket/pkg/logger"
)

// MessagingUseCase owns the message-thread lifecycle. A thread is unique
// per (buyer, product) pair, enforced by lookup-before-create under the
// participants' locks rather than by the store.
type MessagingUseCase struct {
	store  repository.ProjectionStore
	locks  *lock.KeyedMutex
	pusher MessagePusher
	hook   CounterHook
}

func NewMessagingUseCase(
	store repository.ProjectionStore,
	locks *lock.KeyedMutex,
	pusher MessagePusher,
	hook CounterHook,
) *MessagingUseCase {
	if pusher == nil {
		pusher = noopPusher{}
	}
	if hook == nil {
		hook = noopCounterHook{}
	}

	return &MessagingUseCase{
		store:  store,
		locks:  locks,
		pusher: pusher,
		hook:   hook,
	}
}

// ThreadSummary joins a thread with the product it concerns, the shape the
// thread list surfaces to callers.
type ThreadSummary struct {
	*entity.MessageThread
	ProductName  string               `json:"productName"`
	ProductImage string               `json:"productImage,omitempty"`
	Price        int64                `json:"price"`
	Quantity     int                  `json:"quantity"`
	Seller       entity.SellerSummary `json:"seller"`
}

// FindThreadByProduct scans the buyer's entire thread list and returns the
// first thread about productID, or nil when none exists. The linear scan
// is the contract; no secondary index by product exists in the store.
func (uc *MessagingUseCase) FindThreadByProduct(ctx context.Context, buyerID, productID string) (*entity.MessageThread, error) {
	threadIDs, err := uc.userThreadList(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	for _, threadID := range threadIDs {
		var thread entity.MessageThread
		if err := uc.store.Get(ctx, repository.ThreadPath(threadID), &thread); err != nil {
			if errors.IsNotFound(err) {
				// Dangling reference left by an older removal; skip it.
				continue
			}
			return nil, err
		}
		if thread.ProductID == productID {
			thread.ID = threadID
			return &thread, nil
		}
	}
	return nil, nil
}

// StartThread creates a thread and appends its id to both participants'
// listMessages in one multi-path write. Callers gate it behind
// FindThreadByProduct; ContactSeller does both under the participants'
// locks.
func (uc *MessagingUseCase) StartThread(ctx context.Context, productID, sellerID, buyerID string) (*entity.MessageThread, error) {
	if productID == "" || sellerID == "" || buyerID == "" {
		return nil, errors.Validation("product, seller and buyer ids are required", nil)
	}

	thread := &entity.MessageThread{
		ID:          uuid.New().String(),
		ProductID:   productID,
		SellerID:    sellerID,
		BuyerID:     buyerID,
		CreatedAt:   time.Now().UTC(),
		SalesStatus: entity.SalesStatusInitialized,
	}

	sellerThreads, err := uc.userThreadList(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	buyerThreads, err := uc.userThreadList(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	sellerThreads = append(sellerThreads, thread.ID)
	buyerThreads = append(buyerThreads, thread.ID)

	updates := map[string]interface{}{
		repository.ThreadPath(thread.ID):          thread,
		repository.UserListMessagesPath(sellerID): sellerThreads,
		repository.UserListMessagesPath(buyerID):  buyerThreads,
	}

	if err := uc.store.ApplyMulti(ctx, updates); err != nil {
		return nil, err
	}

	uc.hook.ListMessagesUpdated(buyerID, buyerThreads)

	return thread, nil
}

// ContactSeller is the contact flow: reuse the buyer's existing thread for
// the product or start a new one. Holding both participants' locks makes
// the check-then-create span atomic for callers in this process and
// serializes it against thread removal rewriting the same lists.
func (uc *MessagingUseCase) ContactSeller(ctx context.Context, buyerID, sellerID, productID string) (*entity.MessageThread, bool, error) {
	unlock := uc.locks.LockAll(lock.UserKey(buyerID), lock.UserKey(sellerID))
	defer unlock()

	existing, err := uc.FindThreadByProduct(ctx, buyerID, productID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	thread, err := uc.StartThread(ctx, productID, sellerID, buyerID)
	if err != nil {
		return nil, false, err
	}
	return thread, true, nil
}

type pushedMessage struct {
	ThreadID string         `json:"threadId"`
	Key      string         `json:"key"`
	Message  entity.Message `json:"message"`
}

// SendMessage appends one message under the thread with a store-generated
// child key, so concurrent sends from both participants never collide. No
// counters derive from message count; this is a single-path write.
func (uc *MessagingUseCase) SendMessage(ctx context.Context, threadID, senderID, content string) (*entity.Message, error) {
	if content == "" {
		return nil, errors.Validation("message content is required", nil)
	}

	var thread entity.MessageThread
	if err := uc.store.Get(ctx, repository.ThreadPath(threadID), &thread); err != nil {
		return nil, err
	}
	if senderID != thread.BuyerID && senderID != thread.SellerID {
		return nil, errors.Forbidden("Sender is not a participant of this thread", nil)
	}

	message := entity.Message{
		SenderID:  senderID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	key, err := uc.store.Push(ctx, repository.ThreadMessagesPath(threadID), message)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(pushedMessage{ThreadID: threadID, Key: key, Message: message}); err == nil {
		uc.pusher.SendToUser(thread.BuyerID, payload)
		uc.pusher.SendToUser(thread.SellerID, payload)
	}

	return &message, nil
}

// ListThreadMessages returns the thread's messages joined with each
// sender's summary, sorted by timestamp ascending. A thread with no
// messages yields an empty slice.
func (uc *MessagingUseCase) ListThreadMessages(ctx context.Context, threadID string) ([]entity.ResolvedMessage, error) {
	var raw map[string]entity.Message
	if err := uc.store.Get(ctx, repository.ThreadMessagesPath(threadID), &raw); err != nil {
		if errors.IsNotFound(err) {
			return []entity.ResolvedMessage{}, nil
		}
		return nil, err
	}

	senders := make(map[string]*entity.User)
	resolved := make([]entity.ResolvedMessage, 0, len(raw))
	for _, message := range raw {
		sender, ok := senders[message.SenderID]
		if !ok {
			var u entity.User
			if err := uc.store.Get(ctx, repository.UserPath(message.SenderID), &u); err == nil {
				sender = &u
			}
			senders[message.SenderID] = sender
		}

		rm := entity.ResolvedMessage{Message: message}
		if sender != nil {
			rm.SenderName = sender.Username
			rm.SenderAvatar = sender.Avatar
		}
		resolved = append(resolved, rm)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Timestamp.Before(resolved[j].Timestamp)
	})

	return resolved, nil
}

// RemoveThread hard-deletes the thread and prunes its id from both
// participants' listMessages in the same multi-path write. Repairing only
// the initiating side would leave the counterpart with a dangling thread
// id.
func (uc *MessagingUseCase) RemoveThread(ctx context.Context, userID, threadID string) error {
	unlock := uc.locks.Lock(lock.ThreadKey(threadID))
	defer unlock()

	var thread entity.MessageThread
	if err := uc.store.Get(ctx, repository.ThreadPath(threadID), &thread); err != nil {
		return err
	}
	if userID != thread.BuyerID && userID != thread.SellerID {
		return errors.Forbidden("Only a participant can remove a thread", nil)
	}

	// User locks come second; nothing holding a user lock waits on a
	// thread lock, so the ordering cannot cycle.
	unlockUsers := uc.locks.LockAll(lock.UserKey(thread.BuyerID), lock.UserKey(thread.SellerID))
	defer unlockUsers()

	buyerThreads, err := uc.userThreadList(ctx, thread.BuyerID)
	if err != nil {
		return err
	}
	sellerThreads, err := uc.userThreadList(ctx, thread.SellerID)
	if err != nil {
		return err
	}

	prunedBuyer := pruneThreadID(buyerThreads, threadID)
	prunedSeller := pruneThreadID(sellerThreads, threadID)

	updates := map[string]interface{}{
		repository.ThreadPath(threadID):                  nil,
		repository.UserListMessagesPath(thread.BuyerID):  prunedBuyer,
		repository.UserListMessagesPath(thread.SellerID): prunedSeller,
	}

	if err := uc.store.ApplyMulti(ctx, updates); err != nil {
		return err
	}

	if userID == thread.BuyerID {
		uc.hook.ListMessagesUpdated(userID, prunedBuyer)
	} else {
		uc.hook.ListMessagesUpdated(userID, prunedSeller)
	}

	return nil
}

// ThreadSummaries resolves every thread in the user's listMessages and
// joins the product it concerns. Threads whose product no longer resolves
// are skipped, matching the read side's fail-quiet posture.
func (uc *MessagingUseCase) ThreadSummaries(ctx context.Context, userID string) ([]ThreadSummary, error) {
	threadIDs, err := uc.userThreadList(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ThreadSummary, 0, len(threadIDs))
	for _, threadID := range threadIDs {
		var thread entity.MessageThread
		if err := uc.store.Get(ctx, repository.ThreadPath(threadID), &thread); err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		thread.ID = threadID

		var product entity.Product
		if err := uc.store.Get(ctx, repository.ProductPath(thread.ProductID), &product); err != nil {
			if errors.IsNotFound(err) {
				logger.Debug("thread %s references missing product %s", threadID, thread.ProductID)
				continue
			}
			return nil, err
		}

		summaries = append(summaries, ThreadSummary{
			MessageThread: &thread,
			ProductName:   product.Name,
			ProductImage:  product.PrimaryImage(),
			Price:         product.Price,
			Quantity:      product.Quantity,
			Seller:        product.Seller,
		})
	}

	return summaries, nil
}

// userThreadList reads a user's listMessages, treating an absent user or
// absent field as an empty list.
func (uc *MessagingUseCase) userThreadList(ctx context.Context, userID string) ([]string, error) {
	var user entity.User
	if err := uc.store.Get(ctx, repository.UserPath(userID), &user); err != nil {
		if errors.IsNotFound(err) {
			return []string{}, nil
		}
		return nil, err
	}
	if user.ListMessages == nil {
		return []string{}, nil
	}
	return user.ListMessages, nil
}

func pruneThreadID(threadIDs []string, threadID string) []string {
	pruned := make([]string, 0, len(threadIDs))
	for _, id := range threadIDs {
		if id != threadID {
			pruned = append(pruned, id)
		}
	}
	return pruned
}

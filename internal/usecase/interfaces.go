package usecase

import (
	"context"
)

// EventPublisher emits domain events after a successful multi-path write.
// Publish failures are logged and never rolled back into the store.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event interface{}) error
}

// ListCache is the read cache in front of the query layer's full
// collection reads.
type ListCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) bool
	SetJSON(ctx context.Context, key string, value interface{})
	Invalidate(ctx context.Context, keys ...string)
}

// CounterHook mirrors freshly written per-user counters into caller-local
// state (the UI keeps its own copy of the user record). Invoked only after
// the multi-path write has landed.
type CounterHook interface {
	ListSellsUpdated(userID string, listSells int)
	ListPurchasesUpdated(userID string, listPurchases int)
	ListMessagesUpdated(userID string, listMessages []string)
}

// MessagePusher delivers appended messages to connected participants.
type MessagePusher interface {
	SendToUser(userID string, payload []byte)
}

type noopPublisher struct{}

func (noopPublisher) Publish(ctx context.Context, key string, event interface{}) error {
	return nil
}

type noopCache struct{}

func (noopCache) GetJSON(ctx context.Context, key string, dest interface{}) bool { return false }
func (noopCache) SetJSON(ctx context.Context, key string, value interface{})     {}
func (noopCache) Invalidate(ctx context.Context, keys ...string)                 {}

type noopCounterHook struct{}

func (noopCounterHook) ListSellsUpdated(userID string, listSells int)            {}
func (noopCounterHook) ListPurchasesUpdated(userID string, listPurchases int)    {}
func (noopCounterHook) ListMessagesUpdated(userID string, listMessages []string) {}

type noopPusher struct{}

func (noopPusher) SendToUser(userID string, payload []byte) {}

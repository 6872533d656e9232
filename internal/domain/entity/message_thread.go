package entity

import (
	"time"
)

const (
	// SalesStatusInitialized is the entry state of every thread. Further
	// states may be introduced as the sale advances; this layer enforces no
	// terminal state.
	SalesStatusInitialized = "initialized"
)

// MessageThread is a conversation scoped to one buyer, one seller and one
// product. At most one thread exists per (buyer, product) pair, enforced by
// lookup-before-create rather than by the store.
type MessageThread struct {
	ID          string             `json:"messageId"`
	ProductID   string             `json:"productId"`
	SellerID    string             `json:"sellerId"`
	BuyerID     string             `json:"buyerId"`
	CreatedAt   time.Time          `json:"createdAt"`
	SalesStatus string             `json:"salesStatus"`
	Messages    map[string]Message `json:"messages,omitempty"` // keyed by store push key
}

// Message is one entry in a thread's append-only message collection.
type Message struct {
	SenderID  string    `json:"senderId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ResolvedMessage is a message joined with its sender's summary, the shape
// returned to callers of the message list operation.
type ResolvedMessage struct {
	Message
	SenderName   string `json:"username"`
	SenderAvatar string `json:"avatar,omitempty"`
}

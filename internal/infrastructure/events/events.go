package events

import (
	"time"
)

const (
	TypeListingCreated = "listing.created"
	TypeSaleCompleted  = "sale.completed"
)

// ListingCreatedEvent announces a new product listing.
type ListingCreatedEvent struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	SellerID  string    `json:"seller_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

// SaleCompletedEvent is the user-facing completion signal emitted after a
// sale's multi-path write lands.
type SaleCompletedEvent struct {
	Type              string    `json:"type"`
	PurchaseID        string    `json:"purchase_id"`
	ProductID         string    `json:"product_id"`
	BuyerID           string    `json:"buyer_id"`
	SellerID          string    `json:"seller_id"`
	Quantity          int       `json:"quantity"`
	RemainingQuantity int       `json:"remaining_quantity"`
	SoldOut           bool      `json:"sold_out"`
	CompletedAt       time.Time `json:"completed_at"`
}

package entity

import (
	"time"
)

// BuyerInfo is one entry of a seller listing's per-product ledger. Entries
// are append-only and intentionally not deduplicated: a repeat buyer shows
// up once per sale.
type BuyerInfo struct {
	BuyerID  string `json:"buyerId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// SellerListing is the seller-facing projection of a product listing,
// stored under userSellList/<sellerID>/<productID>. Quantity must always
// equal the product's quantity; SellsQuantity must equal the sum of
// quantities across all purchases of the product.
type SellerListing struct {
	UserID        string      `json:"userId"`
	ProductID     string      `json:"productId"`
	UploadDate    time.Time   `json:"createdAt"`
	IsSales       bool        `json:"isSales"` // true while in stock
	Image         string      `json:"image"`   // primary product image
	Name          string      `json:"productName"`
	Price         int64       `json:"price"`
	Quantity      int         `json:"quantity"`
	SellsQuantity int         `json:"sellsQuantity"`
	BuyerInfo     []BuyerInfo `json:"buyerInfo,omitempty"`
}

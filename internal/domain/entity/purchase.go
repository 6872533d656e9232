package entity

import (
	"time"
)

// Purchase is an immutable record of one completed sale, keyed under the
// buyer at usedPurchaseList/<buyerID>/<purchaseID>.
type Purchase struct {
	PurchaseID   string    `json:"purchaseId"`
	BuyerID      string    `json:"buyerId"`
	SellerID     string    `json:"sellerId"`
	SellerName   string    `json:"sellerName"`
	ProductID    string    `json:"productId"`
	ProductImage string    `json:"productImage,omitempty"`
	ProductName  string    `json:"productName"`
	Price        int64     `json:"price"`
	Quantity     int       `json:"productsQuantity"` // units purchased
	CreatedAt    time.Time `json:"createdAt"`
}

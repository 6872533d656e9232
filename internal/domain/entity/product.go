package entity

import (
	"time"
)

// SellerSummary is the denormalized seller snapshot embedded in products,
// threads and purchase records. It is copied at write time and never
// back-filled when the user record changes.
type SellerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Address  string `json:"address,omitempty"`
}

type Product struct {
	ID             string        `json:"id"`
	Seller         SellerSummary `json:"seller"`
	Images         []string      `json:"images"` // first entry is the primary image
	Name           string        `json:"productName"`
	Price          int64         `json:"price"`
	Quantity       int           `json:"quantity"` // 0 = sold out
	Description    string        `json:"description,omitempty"`
	Condition      string        `json:"conditions,omitempty"`     // "new" or "used"
	DeliveryCharge string        `json:"deliveryCharge,omitempty"` // "include" or "exclude"
	CreatedAt      time.Time     `json:"createdAt"`
}

// PrimaryImage returns the first image URL, or "" when none were uploaded.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

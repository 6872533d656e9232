package entity

import (
	"time"
)

// User is the canonical user record. ListSells and ListPurchases are
// derived counters maintained imperatively by the coordinators; they are
// never recomputed from the underlying records.
type User struct {
	ID       string    `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar,omitempty"`
	Address  string    `json:"address,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	JoinDate time.Time `json:"joinDate"`

	ListSells     int      `json:"listSells"`
	ListPurchases int      `json:"listPurchases"`
	ListMessages  []string `json:"listMessages,omitempty"` // thread ids, append order

	IsAdmin bool `json:"isAdmin,omitempty"`
}

func (u *User) Summary() SellerSummary {
	return SellerSummary{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
		Address:  u.Address,
	}
}

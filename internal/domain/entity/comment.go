package entity

import (
	"time"
)

// Comment is one entry of a product's public comment board, stored under
// usedComments/<productID>/<commentID>. Comments are flat; there is no
// reply nesting.
type Comment struct {
	CommentID string    `json:"commentId"`
	ProductID string    `json:"productId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

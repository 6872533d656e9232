package repository

import (
	"fmt"
)

// Path builders for the store's collections. Coordinators never format
// paths by hand; every projection of an entity is addressed through these.

const (
	ProductsRoot = "usedProducts"
	UsersRoot    = "users"
	ThreadsRoot  = "usedMessages"
)

func ProductPath(productID string) string {
	return fmt.Sprintf("usedProducts/%s", productID)
}

func ProductQuantityPath(productID string) string {
	return fmt.Sprintf("usedProducts/%s/quantity", productID)
}

func UserPath(userID string) string {
	return fmt.Sprintf("users/%s", userID)
}

func UserFieldPath(userID, field string) string {
	return fmt.Sprintf("users/%s/%s", userID, field)
}

func UserListSellsPath(userID string) string {
	return fmt.Sprintf("users/%s/listSells", userID)
}

func UserListPurchasesPath(userID string) string {
	return fmt.Sprintf("users/%s/listPurchases", userID)
}

func UserListMessagesPath(userID string) string {
	return fmt.Sprintf("users/%s/listMessages", userID)
}

func SellerListPath(sellerID string) string {
	return fmt.Sprintf("userSellList/%s", sellerID)
}

func SellerListingPath(sellerID, productID string) string {
	return fmt.Sprintf("userSellList/%s/%s", sellerID, productID)
}

func SellerListingQuantityPath(sellerID, productID string) string {
	return fmt.Sprintf("userSellList/%s/%s/quantity", sellerID, productID)
}

func SellerListingSellsQuantityPath(sellerID, productID string) string {
	return fmt.Sprintf("userSellList/%s/%s/sellsQuantity", sellerID, productID)
}

func SellerListingIsSalesPath(sellerID, productID string) string {
	return fmt.Sprintf("userSellList/%s/%s/isSales", sellerID, productID)
}

func SellerListingBuyerInfoPath(sellerID, productID string) string {
	return fmt.Sprintf("userSellList/%s/%s/buyerInfo", sellerID, productID)
}

func ThreadPath(threadID string) string {
	return fmt.Sprintf("usedMessages/%s", threadID)
}

func ThreadMessagesPath(threadID string) string {
	return fmt.Sprintf("usedMessages/%s/messages", threadID)
}

func CommentListPath(productID string) string {
	return fmt.Sprintf("usedComments/%s", productID)
}

func CommentPath(productID, commentID string) string {
	return fmt.Sprintf("usedComments/%s/%s", productID, commentID)
}

func PurchaseListPath(buyerID string) string {
	return fmt.Sprintf("usedPurchaseList/%s", buyerID)
}

func PurchasePath(buyerID, purchaseID string) string {
	return fmt.Sprintf("usedPurchaseList/%s/%s", buyerID, purchaseID)
}

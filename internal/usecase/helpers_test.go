package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	memstore "usedmarket/internal/adapter/repository"
	"usedmarket/internal/domain/entity"
	"usedmarket/internal/domain/repository"
	"usedmarket/internal/infrastructure/lock"
)

func newTestStore() *memstore.MemoryProjectionStore {
	return memstore.NewMemoryProjectionStore()
}

func newTestLocks() *lock.KeyedMutex {
	return lock.NewKeyedMutex(true)
}

func seedUser(t *testing.T, store repository.ProjectionStore, user entity.User) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), repository.UserPath(user.ID), user))
}

func readUser(t *testing.T, store repository.ProjectionStore, userID string) entity.User {
	t.Helper()
	var user entity.User
	require.NoError(t, store.Get(context.Background(), repository.UserPath(userID), &user))
	return user
}

func readProduct(t *testing.T, store repository.ProjectionStore, productID string) entity.Product {
	t.Helper()
	var product entity.Product
	require.NoError(t, store.Get(context.Background(), repository.ProductPath(productID), &product))
	return product
}

func readListing(t *testing.T, store repository.ProjectionStore, sellerID, productID string) entity.SellerListing {
	t.Helper()
	var listing entity.SellerListing
	require.NoError(t, store.Get(context.Background(), repository.SellerListingPath(sellerID, productID), &listing))
	return listing
}

// capturingPublisher records published events in order.
type capturingPublisher struct {
	events []interface{}
}

func (p *capturingPublisher) Publish(ctx context.Context, key string, event interface{}) error {
	p.events = append(p.events, event)
	return nil
}

// capturingCache is an in-memory ListCache that records invalidations.
type capturingCache struct {
	entries     map[string][]byte
	invalidated []string
}

func newCapturingCache() *capturingCache {
	return &capturingCache{entries: make(map[string][]byte)}
}

func (c *capturingCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, ok := c.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *capturingCache) SetJSON(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.entries[key] = raw
}

func (c *capturingCache) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		delete(c.entries, key)
		c.invalidated = append(c.invalidated, key)
	}
}

// capturingHook records the last counter value pushed per user.
type capturingHook struct {
	sells     map[string]int
	purchases map[string]int
	messages  map[string][]string
}

func newCapturingHook() *capturingHook {
	return &capturingHook{
		sells:     make(map[string]int),
		purchases: make(map[string]int),
		messages:  make(map[string][]string),
	}
}

func (h *capturingHook) ListSellsUpdated(userID string, listSells int) {
	h.sells[userID] = listSells
}

func (h *capturingHook) ListPurchasesUpdated(userID string, listPurchases int) {
	h.purchases[userID] = listPurchases
}

func (h *capturingHook) ListMessagesUpdated(userID string, listMessages []string) {
	h.messages[userID] = listMessages
}

// capturingPusher records payloads delivered per user.
type capturingPusher struct {
	sent map[string][][]byte
}

func newCapturingPusher() *capturingPusher {
	return &capturingPusher{sent: make(map[string][][]byte)}
}

func (p *capturingPusher) SendToUser(userID string, payload []byte) {
	p.sent[userID] = append(p.sent[userID], payload)
}

func testSeller() entity.User {
	return entity.User{
		ID:       "seller-1",
		Username: "ayu",
		Email:    "ayu@example.com",
		Address:  "Jakarta",
		JoinDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

func testBuyer() entity.User {
	return entity.User{
		ID:       "buyer-1",
		Username: "budi",
		Email:    "budi@example.com",
		Phone:    "0812",
		JoinDate: time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
	}
}

func testProduct(sellerID string, quantity int) *entity.Product {
	return &entity.Product{
		ID:             "prod-1",
		Seller:         entity.SellerSummary{ID: sellerID},
		Images:         []string{"https://img.example.com/bike-front.jpg", "https://img.example.com/bike-side.jpg"},
		Name:           "Folding Bike",
		Price:          1500000,
		Quantity:       quantity,
		Description:    "Lightly used, stored indoors",
		Condition:      "used",
		DeliveryCharge: "exclude",
	}
}

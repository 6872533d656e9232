package websocket

import (
	"encoding/json"
)

// CounterNotifier mirrors freshly written user counters to the user's live
// connection, so an open client can update its local copy of the user
// record without refetching it.
type CounterNotifier struct {
	manager *Manager
}

func NewCounterNotifier(manager *Manager) *CounterNotifier {
	return &CounterNotifier{
		manager: manager,
	}
}

func (n *CounterNotifier) ListSellsUpdated(userID string, listSells int) {
	n.push(userID, map[string]interface{}{
		"type":      "counters",
		"listSells": listSells,
	})
}

func (n *CounterNotifier) ListPurchasesUpdated(userID string, listPurchases int) {
	n.push(userID, map[string]interface{}{
		"type":          "counters",
		"listPurchases": listPurchases,
	})
}

func (n *CounterNotifier) ListMessagesUpdated(userID string, listMessages []string) {
	n.push(userID, map[string]interface{}{
		"type":         "counters",
		"listMessages": listMessages,
	})
}

func (n *CounterNotifier) push(userID string, payload map[string]interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	n.manager.SendToUser(userID, raw)
}

// Wire types for the HTTP/WS transport surface (§4.8): request/response
// bodies for the transaction-core operations and the read-only getters,
// plus the envelope broadcast over /ws/events.
package api

import (
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// LockBuyRequest is the POST /api/lock-buy body.
type LockBuyRequest struct {
	Kind   types.GoodKind `json:"kind"`
	Qty    float32        `json:"quantity"`
	Bid    float32        `json:"bid"`
	Trader string         `json:"trader"`
}

// LockBuyResponse is the POST /api/lock-buy success body.
type LockBuyResponse struct {
	Token string `json:"token"`
}

// BuyRequest is the POST /api/buy body: the cash good offered against a
// previously locked token.
type BuyRequest struct {
	Token string  `json:"token"`
	Cash  float32 `json:"cash"`
}

// BuyResponse is the POST /api/buy success body.
type BuyResponse struct {
	Kind     types.GoodKind `json:"kind"`
	Quantity float32        `json:"quantity"`
}

// LockSellRequest is the POST /api/lock-sell body.
type LockSellRequest struct {
	Kind   types.GoodKind `json:"kind"`
	Qty    float32        `json:"quantity"`
	Offer  float32        `json:"offer"`
	Trader string         `json:"trader"`
}

// LockSellResponse is the POST /api/lock-sell success body.
type LockSellResponse struct {
	Token string `json:"token"`
}

// SellRequest is the POST /api/sell body: the good delivered against a
// previously locked token.
type SellRequest struct {
	Token    string         `json:"token"`
	Kind     types.GoodKind `json:"kind"`
	Quantity float32        `json:"quantity"`
}

// SellResponse is the POST /api/sell success body: the DEFAULT good paid out.
type SellResponse struct {
	Quantity float32 `json:"quantity"`
}

// PriceQuote is one entry of the GET /api/prices response.
type PriceQuote struct {
	Kind      types.GoodKind `json:"kind"`
	Quantity  float32        `json:"quantity"`
	BuyPrice  float32        `json:"buy_price,omitempty"`
	BuyErr    string         `json:"buy_error,omitempty"`
	SellPrice float32        `json:"sell_price,omitempty"`
	SellErr   string         `json:"sell_error,omitempty"`
}

// SnapshotResponse is the GET /api/snapshot body.
type SnapshotResponse struct {
	Market  string                                   `json:"market"`
	Tick    uint64                                   `json:"tick"`
	Entries map[types.GoodKind]types.InventoryEntry `json:"entries"`
}

// ErrorResponse is the body returned for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// wsEnvelope wraps a types.Event for delivery over /ws/events.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Event types.Event `json:"event"`
}

package api

import (
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// MarketAPI is the subset of engine.Market the HTTP/WS transport drives.
// Kept as an interface so handlers can be tested against a stub instead of
// a full Market.
type MarketAPI interface {
	Name() string
	Now() uint64
	GetBuyPrice(kind types.GoodKind, qty float32) (float32, error)
	GetSellPrice(kind types.GoodKind, qty float32) (float32, error)
	LockBuy(kind types.GoodKind, qty, bid float32, trader string) (string, error)
	Buy(token string, cash *types.Good) (types.Good, error)
	LockSell(kind types.GoodKind, qty, offer float32, trader string) (string, error)
	Sell(token string, good *types.Good) (types.Good, error)
	Snapshot() map[types.GoodKind]types.InventoryEntry
	AddSubscriber(s types.EventSink)
}

// BuildSnapshotResponse assembles the GET /api/snapshot body from a market.
func BuildSnapshotResponse(m MarketAPI) SnapshotResponse {
	return SnapshotResponse{
		Market:  m.Name(),
		Tick:    m.Now(),
		Entries: m.Snapshot(),
	}
}

// BuildPriceQuotes assembles the GET /api/prices body: one quote per kind
// for the requested quantity. A pricing error for one kind does not
// prevent the others from reporting.
func BuildPriceQuotes(m MarketAPI, qty float32) []PriceQuote {
	quotes := make([]PriceQuote, 0, len(types.Kinds))
	for _, kind := range types.Kinds {
		q := PriceQuote{Kind: kind, Quantity: qty}
		if buy, err := m.GetBuyPrice(kind, qty); err != nil {
			q.BuyErr = err.Error()
		} else {
			q.BuyPrice = buy
		}
		if sell, err := m.GetSellPrice(kind, qty); err != nil {
			q.SellErr = err.Error()
		} else {
			q.SellPrice = sell
		}
		quotes = append(quotes, q)
	}
	return quotes
}

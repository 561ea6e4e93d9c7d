// Package types defines shared data structures used across all packages.
//
// This package is the common vocabulary for the market core — goods,
// inventory entries, lock contracts, and the transaction event record. It
// has no dependencies on internal packages, so it can be imported by any
// layer.
package types

// ————————————————————————————————————————————————————————————————————————
// Goods
// ————————————————————————————————————————————————————————————————————————

// GoodKind identifies one of the four currencies a market trades. DEFAULT is
// the numeraire every price is denominated in; A, B, C are the three
// non-default currencies.
type GoodKind string

const (
	DEFAULT GoodKind = "DEFAULT"
	A       GoodKind = "A"
	B       GoodKind = "B"
	C       GoodKind = "C"
)

// Kinds lists every GoodKind in a fixed, stable order. Used wherever all
// four ledger entries must be visited deterministically (snapshot encoding,
// random capital partition, tariff sweeps).
var Kinds = []GoodKind{DEFAULT, A, B, C}

// Valid reports whether k is one of the four known kinds.
func (k GoodKind) Valid() bool {
	switch k {
	case DEFAULT, A, B, C:
		return true
	default:
		return false
	}
}

// Good is a quantity of a named currency. The zero value is not a usable
// Good (Quantity 0 of DEFAULT is fine; the zero value of GoodKind is not a
// Valid kind).
type Good struct {
	Kind     GoodKind
	Quantity float32
}

// Split withdraws q units from g, returning a new Good holding exactly q.
// Fails if q is non-positive or exceeds g's quantity; g is left unchanged on
// failure. On success g.Quantity is decreased by q.
func (g *Good) Split(q float32) (Good, error) {
	if q <= 0 {
		return Good{}, &NonPositiveQuantityAskedError{Quantity: q}
	}
	if q > g.Quantity {
		return Good{}, &InsufficientGoodQuantityError{
			Kind:      g.Kind,
			Requested: q,
			Available: g.Quantity,
		}
	}
	g.Quantity -= q
	return Good{Kind: g.Kind, Quantity: q}, nil
}

// ————————————————————————————————————————————————————————————————————————
// Inventory
// ————————————————————————————————————————————————————————————————————————

// InventoryEntry is one ledger line: how much of Kind the market holds, and
// the buy/sell exchange rates currently quoted for it. For DEFAULT both
// rates are fixed at 1 and never change.
type InventoryEntry struct {
	Kind      GoodKind
	Quantity  float32
	BuyRate   float32 // DEFAULT paid per unit when the market sells Kind to a trader
	SellRate  float32 // DEFAULT paid per unit when the market buys Kind from a trader
}

// ————————————————————————————————————————————————————————————————————————
// Lock contracts
// ————————————————————————————————————————————————————————————————————————

// LockContract is a reservation minted by lock_buy or lock_sell. It is
// immutable after creation; Good and Price carry different meanings
// depending on which side minted it (see engine.Market.LockBuy/LockSell).
type LockContract struct {
	Token      string
	Good       Good
	Price      float32
	ExpiryTick uint64
}

// ————————————————————————————————————————————————————————————————————————
// Events
// ————————————————————————————————————————————————————————————————————————

// EventKind enumerates the five event shapes a market can emit or receive.
type EventKind string

const (
	LockedBuy  EventKind = "LockedBuy"
	Bought     EventKind = "Bought"
	LockedSell EventKind = "LockedSell"
	Sold       EventKind = "Sold"
	Wait       EventKind = "Wait"
)

// Event is what the event bus fans out: one record per state-mutating
// operation, plus the externally-delivered Wait used to age a market with
// no trading activity.
type Event struct {
	Kind     EventKind `json:"kind"`
	GoodKind GoodKind  `json:"good_kind,omitempty"`
	Quantity float32   `json:"quantity,omitempty"`
	Price    float32   `json:"price,omitempty"`
}

// EventSink is the "subscriber capability" of the event bus: any value that
// can receive one Event at a time. A market satisfies this for its peers;
// a WebSocket hub client and a remote HTTP subscriber satisfy it too.
type EventSink interface {
	ReceiveEvent(e Event) error
}

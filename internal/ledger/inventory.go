// Package ledger implements the market's inventory: the mapping from
// GoodKind to (quantity, buy-rate, sell-rate). It is grounded on
// internal/strategy/inventory.go's mutex-protected struct with a
// Snapshot() accessor, generalized from a two-sided YES/NO position to a
// four-entry ledger keyed by types.GoodKind.
package ledger

import (
	"sync"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// Inventory is the market's bookkeeping ledger. An entry exists for every
// GoodKind for the whole lifetime of the market; entries are never removed.
// It is safe for concurrent read access (a status/dashboard goroutine may
// call Snapshot while the market's single owning flow mutates it), even
// though the protocol itself is single-threaded per operation.
type Inventory struct {
	mu      sync.RWMutex
	entries map[types.GoodKind]types.InventoryEntry
	greed   float32
}

// New builds an Inventory seeded with the given starting quantities. Initial
// buy-rates for non-DEFAULT kinds are 1; sell-rates follow from greed.
// DEFAULT's rates are fixed at 1 for the lifetime of the market.
func New(greed float32, qtyDefault, qtyA, qtyB, qtyC float32) *Inventory {
	inv := &Inventory{
		entries: make(map[types.GoodKind]types.InventoryEntry, len(types.Kinds)),
		greed:   greed,
	}
	inv.entries[types.DEFAULT] = types.InventoryEntry{Kind: types.DEFAULT, Quantity: qtyDefault, BuyRate: 1, SellRate: 1}
	inv.entries[types.A] = types.InventoryEntry{Kind: types.A, Quantity: qtyA, BuyRate: 1, SellRate: 1 / greed}
	inv.entries[types.B] = types.InventoryEntry{Kind: types.B, Quantity: qtyB, BuyRate: 1, SellRate: 1 / greed}
	inv.entries[types.C] = types.InventoryEntry{Kind: types.C, Quantity: qtyC, BuyRate: 1, SellRate: 1 / greed}
	return inv
}

// FromEntries restores an Inventory from previously persisted entries, e.g.
// when loading a snapshot. Missing kinds are filled with a zero-quantity,
// rate-1 entry so that every ledger always has all four kinds.
func FromEntries(greed float32, entries map[types.GoodKind]types.InventoryEntry) *Inventory {
	inv := &Inventory{entries: make(map[types.GoodKind]types.InventoryEntry, len(types.Kinds)), greed: greed}
	for _, k := range types.Kinds {
		if e, ok := entries[k]; ok {
			inv.entries[k] = e
			continue
		}
		rate := float32(1)
		sell := float32(1)
		if k != types.DEFAULT {
			sell = 1 / greed
		}
		inv.entries[k] = types.InventoryEntry{Kind: k, Quantity: 0, BuyRate: rate, SellRate: sell}
	}
	return inv
}

// Get returns a copy of the entry for kind.
func (inv *Inventory) Get(kind types.GoodKind) types.InventoryEntry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.entries[kind]
}

// Snapshot returns a copy of every ledger entry, keyed by kind.
func (inv *Inventory) Snapshot() map[types.GoodKind]types.InventoryEntry {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make(map[types.GoodKind]types.InventoryEntry, len(inv.entries))
	for k, v := range inv.entries {
		out[k] = v
	}
	return out
}

// Stock returns the current quantity held for kind.
func (inv *Inventory) Stock(kind types.GoodKind) float32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return inv.entries[kind].Quantity
}

// AddQuantity adjusts kind's stock by delta (may be negative). Panics if the
// kind is missing from the ledger — a missing entry is an invariant breach,
// not a recoverable input error (§7 of the spec).
func (inv *Inventory) AddQuantity(kind types.GoodKind, delta float32) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	e, ok := inv.entries[kind]
	if !ok {
		panic("ledger: missing inventory entry for " + string(kind))
	}
	e.Quantity += delta
	inv.entries[kind] = e
}

// SetRates overwrites kind's buy-rate and recomputes its sell-rate from the
// ledger's greed factor. No-op for DEFAULT, whose rates never change.
func (inv *Inventory) SetRates(kind types.GoodKind, buyRate float32) {
	if kind == types.DEFAULT {
		return
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()
	e, ok := inv.entries[kind]
	if !ok {
		panic("ledger: missing inventory entry for " + string(kind))
	}
	e.BuyRate = buyRate
	e.SellRate = buyRate / inv.greed
	inv.entries[kind] = e
}

// Greed returns the ledger's fixed margin factor.
func (inv *Inventory) Greed() float32 {
	return inv.greed
}

// TotalValueAtDefaultRates sums quantity*buyRate across every kind, used by
// new_random to keep the partitioned capital within STARTING_CAPITAL.
func (inv *Inventory) TotalValueAtDefaultRates() float32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	var total float32
	for _, e := range inv.entries {
		total += e.Quantity * e.BuyRate
	}
	return total
}

// Package engine implements the Market: the central stateful engine that
// wires together the ledger, the two contract archives, the clock, the
// tariff engine, and the event bus into the transaction-core operations
// (lock_buy, buy, lock_sell, sell) and the market lifecycle (three
// constructors plus a destructor). The orchestration shape — one struct
// holding every subsystem, guarded by a single mutex, with Start/Stop-style
// lifecycle methods — is grounded on internal/engine/engine.go's Engine,
// generalized from "coordinate WS feeds, scanner, strategy, risk" down to
// "coordinate ledger, archives, clock, tariff, subscribers".
package engine

import (
	"log/slog"
	"math/rand"
	"sync"

	"github.com/lucagiacometti19/market-fsk/internal/clock"
	"github.com/lucagiacometti19/market-fsk/internal/contracts"
	"github.com/lucagiacometti19/market-fsk/internal/ledger"
	"github.com/lucagiacometti19/market-fsk/internal/pricing"
	"github.com/lucagiacometti19/market-fsk/internal/tariff"
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// SnapshotPersister is the subset of internal/store.Store the Market needs:
// write the current ledger+tick, and load a previously written one. Kept as
// an interface so the market core has no hard import-time dependency on a
// particular serialization backend, matching §1's stance that snapshot
// serialization format is an external-collaborator concern.
type SnapshotPersister interface {
	SaveSnapshot(name string, entries map[types.GoodKind]types.InventoryEntry, tick uint64, periodic bool) error
	LoadSnapshot(path string) (entries map[types.GoodKind]types.InventoryEntry, tick uint64, ok bool, err error)
}

// EventLogger is the subset of logging the market needs for the §6
// log-file record format. A real implementation lives in internal/store;
// tests can stub it out.
type EventLogger interface {
	LogInit(name string, entries map[types.GoodKind]types.InventoryEntry)
	LogLockBuy(trader string, kind types.GoodKind, qty, bid float32, token string, ok bool)
	LogLockSell(trader string, kind types.GoodKind, qty, offer float32, token string, ok bool)
	LogBuy(token string, ok bool)
	LogSell(token string, ok bool)
}

// Market is the currency-exchange engine described by this protocol.
type Market struct {
	mu sync.Mutex

	name string

	inv         *ledger.Inventory
	buyArchive  *contracts.Archive
	sellArchive *contracts.Archive
	clock       *clock.Clock
	tariff      *tariff.Engine
	constants   pricing.Constants

	subscribers []types.EventSink

	rng *rand.Rand

	logger      *slog.Logger
	eventLogger EventLogger
	persister   SnapshotPersister

	snapshotPath string // well-known path for this market's periodic/final snapshots
}

// Name returns the market's configured name, used in log lines and
// snapshot file names.
func (m *Market) Name() string {
	return m.name
}

// Now returns the current tick.
func (m *Market) Now() uint64 {
	return m.clock.Now()
}

// Snapshot returns a copy of every ledger entry, keyed by kind.
func (m *Market) Snapshot() map[types.GoodKind]types.InventoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inv.Snapshot()
}

// AddSubscriber appends s to the ordered subscriber list. Duplicates are
// allowed; insertion order is preserved.
func (m *Market) AddSubscriber(s types.EventSink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, s)
}

// ReceiveEvent is this market's EventSink implementation: it lets this
// market act as a peer's subscriber. Per the design notes, receiving an
// event only advances the clock and runs the tariff pipeline — it never
// re-emits or forwards further, which is what keeps mutually-subscribed
// markets from recursing unboundedly.
func (m *Market) ReceiveEvent(types.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanceClockAndSweepLocked()
	return nil
}

// advanceClockAndSweepLocked runs §4.3 steps 1–5 against this market's own
// state. Callers must already hold m.mu.
func (m *Market) advanceClockAndSweepLocked() {
	now := m.clock.Advance()
	m.tariff.Apply(now, m.inv, m.buyArchive, m.sellArchive)
	if m.persister != nil {
		if err := m.persister.SaveSnapshot(m.name, m.inv.Snapshot(), now, true); err != nil && m.logger != nil {
			m.logger.Warn("snapshot persist failed", "market", m.name, "tick", now, "err", err)
		}
	}
}

// emitLocked is the notify(e) of §4.7: self-delivery first (clock +
// tariff), then fan-out to subscribers in insertion order. Callers must
// already hold m.mu; it is never called from ReceiveEvent, so a cycle of
// mutually-subscribed markets never recurses through this path.
func (m *Market) emitLocked(e types.Event) {
	m.advanceClockAndSweepLocked()
	for _, s := range m.subscribers {
		if err := s.ReceiveEvent(e); err != nil && m.logger != nil {
			m.logger.Warn("subscriber rejected event", "market", m.name, "event", e.Kind, "err", err)
		}
	}
}

// ReceiveWait delivers an external "wait one day" Event to the market —
// the only way a market driven with no trading activity ages at all.
func (m *Market) ReceiveWait() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitLocked(types.Event{Kind: types.Wait})
}

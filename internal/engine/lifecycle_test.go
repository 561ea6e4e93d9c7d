package engine

import (
	"math/rand"
	"testing"

	"github.com/lucagiacometti19/market-fsk/internal/pricing"
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

func testOptions() Options {
	return Options{
		Name:      "test-market",
		Constants: pricing.Constants{Greed: 1.01, TimeDecay: 0.999, Discount: 0.20, TTL: 9},
		Rng:       rand.New(rand.NewSource(1)),
	}
}

func TestNewWithQuantitiesSeedsLedgerAndClock(t *testing.T) {
	t.Parallel()
	m := NewWithQuantities(testOptions(), 1000, 100, 100, 100)

	if m.Now() != 0 {
		t.Errorf("Now() = %d, want 0", m.Now())
	}
	snap := m.Snapshot()
	if snap[types.A].Quantity != 100 {
		t.Errorf("A quantity = %v, want 100", snap[types.A].Quantity)
	}
	if snap[types.DEFAULT].BuyRate != 1 {
		t.Errorf("DEFAULT buy rate = %v, want 1", snap[types.DEFAULT].BuyRate)
	}
}

func TestNewRandomNeverExceedsStartingCapital(t *testing.T) {
	t.Parallel()
	const capital = float32(1000)
	m := NewRandom(testOptions(), capital)

	var total float32
	for _, kind := range types.Kinds {
		total += m.Snapshot()[kind].Quantity
	}
	if total > capital+0.01 {
		t.Errorf("total quantity = %v, exceeds starting capital %v", total, capital)
	}
}

type stubPersister struct {
	entries map[types.GoodKind]types.InventoryEntry
	tick    uint64
	ok      bool
	err     error

	saved     map[types.GoodKind]types.InventoryEntry
	savedTick uint64
}

func (s *stubPersister) SaveSnapshot(name string, entries map[types.GoodKind]types.InventoryEntry, tick uint64, periodic bool) error {
	s.saved = entries
	s.savedTick = tick
	return nil
}

func (s *stubPersister) LoadSnapshot(path string) (map[types.GoodKind]types.InventoryEntry, uint64, bool, error) {
	return s.entries, s.tick, s.ok, s.err
}

func TestNewFromSnapshotRestoresWhenAvailable(t *testing.T) {
	t.Parallel()
	opts := testOptions()
	opts.Persister = &stubPersister{
		ok:   true,
		tick: 42,
		entries: map[types.GoodKind]types.InventoryEntry{
			types.DEFAULT: {Kind: types.DEFAULT, Quantity: 500, BuyRate: 1, SellRate: 1},
			types.A:       {Kind: types.A, Quantity: 30, BuyRate: 1.2, SellRate: 1.2 / 1.01},
		},
	}

	m := NewFromSnapshot(opts, "some/path.json", 1000)
	if m.Now() != 42 {
		t.Errorf("Now() = %d, want 42 (restored tick)", m.Now())
	}
	if m.Snapshot()[types.A].Quantity != 30 {
		t.Errorf("A quantity = %v, want 30 (restored)", m.Snapshot()[types.A].Quantity)
	}
}

func TestNewFromSnapshotFallsBackToRandomWhenMissing(t *testing.T) {
	t.Parallel()
	opts := testOptions()
	opts.Persister = &stubPersister{ok: false}

	m := NewFromSnapshot(opts, "missing/path.json", 1000)
	if m.Now() != 0 {
		t.Errorf("Now() = %d, want 0 (fresh random market)", m.Now())
	}
}

func TestCloseRestoresOutstandingLocksBeforeFinalSnapshot(t *testing.T) {
	t.Parallel()
	opts := testOptions()
	persister := &stubPersister{}
	opts.Persister = persister
	m := NewWithQuantities(opts, 1000, 100, 100, 100)

	token, err := m.LockBuy(types.A, 10, 20, "trader1")
	if err != nil {
		t.Fatalf("LockBuy: %v", err)
	}
	if m.Snapshot()[types.A].Quantity != 90 {
		t.Fatalf("A quantity after lock = %v, want 90", m.Snapshot()[types.A].Quantity)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if m.Snapshot()[types.A].Quantity != 100 {
		t.Errorf("A quantity after Close = %v, want 100 (lock restored)", m.Snapshot()[types.A].Quantity)
	}
	if persister.saved == nil {
		t.Fatal("Close did not persist a final snapshot")
	}
	if _, active := m.buyArchive.Get(token); active {
		t.Error("outstanding buy lock still active after Close")
	}
}

func TestCloseWithNoPersisterSucceeds(t *testing.T) {
	t.Parallel()
	m := NewWithQuantities(testOptions(), 1000, 100, 100, 100)
	if err := m.Close(); err != nil {
		t.Fatalf("Close with nil persister: %v", err)
	}
}

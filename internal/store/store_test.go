package store

import (
	"path/filepath"
	"testing"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

func testEntries() map[types.GoodKind]types.InventoryEntry {
	return map[types.GoodKind]types.InventoryEntry{
		types.DEFAULT: {Kind: types.DEFAULT, Quantity: 1000, BuyRate: 1, SellRate: 1},
		types.A:       {Kind: types.A, Quantity: 90, BuyRate: 1.1111, SellRate: 1.1001},
		types.B:       {Kind: types.B, Quantity: 100, BuyRate: 1, SellRate: 1 / 1.01},
		types.C:       {Kind: types.C, Quantity: 100, BuyRate: 1, SellRate: 1 / 1.01},
	}
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := Open(dir, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	entries := testEntries()
	if err := s.SaveSnapshot("FSK", entries, 12, false); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	path := filepath.Join(dir, "market_FSK_snapshot_at_drop.json")
	loaded, tick, ok, err := s.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !ok {
		t.Fatal("LoadSnapshot reported not found")
	}
	if tick != 12 {
		t.Errorf("tick = %v, want 12", tick)
	}
	if loaded[types.A].Quantity != 90 {
		t.Errorf("A quantity = %v, want 90", loaded[types.A].Quantity)
	}
}

func TestSaveSnapshotPeriodicPathUsesTick(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := Open(dir, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.SaveSnapshot("FSK", testEntries(), 42, true); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	path := filepath.Join(dir, "market_FSK_snapshot_42.json")
	_, _, ok, err := s.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if !ok {
		t.Errorf("expected periodic snapshot file at %s", path)
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := Open(dir, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	_, _, ok, err := s.LoadSnapshot(filepath.Join(dir, "does_not_exist.json"))
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing snapshot")
	}
}

func TestSaveSnapshotOverwrites(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	s, err := Open(dir, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	_ = s.SaveSnapshot("FSK", testEntries(), 1, false)
	e2 := testEntries()
	entry := e2[types.A]
	entry.Quantity = 55
	e2[types.A] = entry
	_ = s.SaveSnapshot("FSK", e2, 2, false)

	path := filepath.Join(dir, "market_FSK_snapshot_at_drop.json")
	loaded, tick, ok, err := s.LoadSnapshot(path)
	if err != nil || !ok {
		t.Fatalf("LoadSnapshot: ok=%v err=%v", ok, err)
	}
	if tick != 2 {
		t.Errorf("tick = %v, want 2 (latest save)", tick)
	}
	if loaded[types.A].Quantity != 55 {
		t.Errorf("A quantity = %v, want 55 (latest save)", loaded[types.A].Quantity)
	}
}

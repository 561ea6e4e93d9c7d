// Market lifecycle (§4.6): the three constructors and the destructor that
// restores outstanding locks before writing a final snapshot.
package engine

import (
	"log/slog"
	"math/rand"

	"github.com/lucagiacometti19/market-fsk/internal/clock"
	"github.com/lucagiacometti19/market-fsk/internal/contracts"
	"github.com/lucagiacometti19/market-fsk/internal/ledger"
	"github.com/lucagiacometti19/market-fsk/internal/pricing"
	"github.com/lucagiacometti19/market-fsk/internal/tariff"
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// Options bundles the dependencies every constructor needs beyond the
// initial ledger quantities: constants, a random source (§1 treats
// randomness as an injectable external collaborator), a logger, an
// optional event logger (§6 log file), and an optional snapshot
// persister (§6 snapshot file).
type Options struct {
	Name      string
	Constants pricing.Constants
	Rng       *rand.Rand
	Logger    *slog.Logger

	EventLogger EventLogger
	Persister   SnapshotPersister
}

func newMarket(opts Options, inv *ledger.Inventory, startTick uint64) *Market {
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(1))
	}
	m := &Market{
		name:        opts.Name,
		inv:         inv,
		buyArchive:  contracts.New(opts.Rng),
		sellArchive: contracts.New(opts.Rng),
		clock:       clock.New(startTick),
		tariff:      tariff.New(opts.Constants, opts.Logger),
		constants:   opts.Constants,
		rng:         opts.Rng,
		logger:      opts.Logger,
		eventLogger: opts.EventLogger,
		persister:   opts.Persister,
	}
	if m.eventLogger != nil {
		m.eventLogger.LogInit(m.name, inv.Snapshot())
	}
	return m
}

// NewWithQuantities implements new_with_quantities: direct seeding with
// fixed initial quantities. Initial buy-rates are 1 for every non-DEFAULT
// kind; sell-rates follow from greed; clock starts at 0.
func NewWithQuantities(opts Options, qtyDefault, qtyA, qtyB, qtyC float32) *Market {
	inv := ledger.New(opts.Constants.Greed, qtyDefault, qtyA, qtyB, qtyC)
	return newMarket(opts, inv, 0)
}

// NewRandom implements new_random: partitions a fixed starting capital
// (denominated in DEFAULT) across the four kinds using the market's
// injected RNG. Because initial buy-rates are all 1, the total value at
// default exchange rates equals the sum of the partitioned quantities,
// which this partition keeps at or below startingCapital by construction.
func NewRandom(opts Options, startingCapital float32) *Market {
	if opts.Rng == nil {
		opts.Rng = rand.New(rand.NewSource(1))
	}
	shares := make([]float64, len(types.Kinds))
	var total float64
	for i := range shares {
		shares[i] = opts.Rng.Float64()
		total += shares[i]
	}
	qty := make(map[types.GoodKind]float32, len(types.Kinds))
	for i, kind := range types.Kinds {
		qty[kind] = float32(shares[i] / total * float64(startingCapital))
	}
	return NewWithQuantities(opts, qty[types.DEFAULT], qty[types.A], qty[types.B], qty[types.C])
}

// NewFromSnapshot implements new_from_snapshot: if path exists and parses
// as a valid snapshot, restore the ledger and clock from it; otherwise
// fall back to new_random.
func NewFromSnapshot(opts Options, path string, fallbackStartingCapital float32) *Market {
	if opts.Persister != nil {
		entries, tick, ok, err := opts.Persister.LoadSnapshot(path)
		if err != nil && opts.Logger != nil {
			opts.Logger.Warn("snapshot load failed, falling back to new_random", "path", path, "err", err)
		}
		if ok {
			inv := ledger.FromEntries(opts.Constants.Greed, entries)
			return newMarket(opts, inv, tick)
		}
	}
	return NewRandom(opts, fallbackStartingCapital)
}

// Close is the destructor (§4.6): restores every outstanding buy and sell
// contract's reserved resources to the ledger, recomputing rates as if the
// reservations had never happened, then writes a final snapshot to the
// well-known "at_drop" path and releases. Locks are never persisted.
func (m *Market) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.buyArchive.Outstanding() {
		m.buyArchive.Consume(c.Token)
		m.inv.AddQuantity(c.Good.Kind, c.Good.Quantity)
	}
	for _, c := range m.sellArchive.Outstanding() {
		m.sellArchive.Consume(c.Token)
		m.inv.AddQuantity(types.DEFAULT, c.Price)
	}

	if m.persister == nil {
		return nil
	}
	return m.persister.SaveSnapshot(m.name, m.inv.Snapshot(), m.clock.Now(), false)
}

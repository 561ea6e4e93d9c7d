// Package tariff implements the Clock & Tariff engine's per-event pipeline:
// time-decay, expiry sweep, and the weekly discount window. The ordered,
// side-effecting pipeline (run a fixed sequence of checks against the
// current state, updating it as you go) is grounded on
// internal/risk/manager.go's processReport, which evaluates an ordered
// sequence of limit checks against each incoming report.
package tariff

import (
	"log/slog"

	"github.com/lucagiacometti19/market-fsk/internal/contracts"
	"github.com/lucagiacometti19/market-fsk/internal/ledger"
	"github.com/lucagiacometti19/market-fsk/internal/pricing"
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// Engine runs the decay/sweep/discount-window steps of §4.3 against a
// market's inventory and archives, given the tick the clock has already
// advanced to.
type Engine struct {
	constants pricing.Constants
	logger    *slog.Logger
}

// New builds a tariff Engine with the given constants.
func New(constants pricing.Constants, logger *slog.Logger) *Engine {
	return &Engine{constants: constants, logger: logger}
}

// Apply runs steps 2–4 of §4.3 against inv using the given tick as "now":
// time-decay on every non-DEFAULT buy-rate, expiry sweeps crediting
// reserved resources back to inventory, and the discount window toggle at
// tick%7==4/5. Step 1 (advancing the clock to `now`) and step 5 (persisting
// a snapshot) are the caller's responsibility — they live in clock.Clock
// and internal/store respectively, kept separate so this engine stays a
// pure function of (now, ledger, archives).
func (e *Engine) Apply(now uint64, inv *ledger.Inventory, buyArchive, sellArchive *contracts.Archive) {
	e.decay(inv)
	e.sweep(now, inv, buyArchive, sellArchive)
	e.discountWindow(now, inv)
}

func (e *Engine) decay(inv *ledger.Inventory) {
	for _, kind := range types.Kinds {
		if kind == types.DEFAULT {
			continue
		}
		entry := inv.Get(kind)
		inv.SetRates(kind, entry.BuyRate*e.constants.TimeDecay)
	}
}

// sweep pops expired contracts on the sell-archive first (crediting their
// Price back to DEFAULT stock), then the buy-archive (crediting their
// reserved Good quantity back to its own kind's stock) — the order §4.3
// names explicitly.
func (e *Engine) sweep(now uint64, inv *ledger.Inventory, buyArchive, sellArchive *contracts.Archive) {
	for _, c := range sellArchive.PopExpired(now) {
		inv.AddQuantity(types.DEFAULT, c.Price)
		if e.logger != nil {
			e.logger.Debug("swept expired sell lock", "token", c.Token, "kind", c.Good.Kind, "qty", c.Good.Quantity)
		}
	}
	for _, c := range buyArchive.PopExpired(now) {
		inv.AddQuantity(c.Good.Kind, c.Good.Quantity)
		if e.logger != nil {
			e.logger.Debug("swept expired buy lock", "token", c.Token, "kind", c.Good.Kind, "qty", c.Good.Quantity)
		}
	}
}

func (e *Engine) discountWindow(now uint64, inv *ledger.Inventory) {
	switch now % 7 {
	case 4:
		for _, kind := range types.Kinds {
			if kind == types.DEFAULT {
				continue
			}
			entry := inv.Get(kind)
			inv.SetRates(kind, entry.BuyRate*(1-e.constants.Discount))
		}
	case 5:
		for _, kind := range types.Kinds {
			if kind == types.DEFAULT {
				continue
			}
			entry := inv.Get(kind)
			inv.SetRates(kind, entry.BuyRate/(1-e.constants.Discount))
		}
	}
}

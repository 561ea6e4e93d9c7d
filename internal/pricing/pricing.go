// Package pricing implements the market's pure exchange-rate and quoting
// formulas. Nothing here touches the ledger or the archives directly — every
// function takes its inputs as arguments and returns a value, the same
// pure-function shape internal/strategy/maker.go uses for its quote math,
// generalized from the Avellaneda-Stoikov reservation-price formula to this
// protocol's buy/sell rate update rules.
package pricing

import (
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// Constants tunes the pricing engine. GREED is the market's fixed
// multiplicative margin between buy and sell rates; TimeDecay and Discount
// drive the tariff schedule in internal/tariff.
type Constants struct {
	Greed      float32
	TimeDecay  float32
	Discount   float32
	TTL        uint64
}

// DefaultConstants mirrors the example values from the protocol: GREED =
// 1.01, TIME_DECAY = 0.999, DISCOUNT = 0.20, TTL = 9 ticks.
var DefaultConstants = Constants{
	Greed:     1.01,
	TimeDecay: 0.999,
	Discount:  0.20,
	TTL:       9,
}

// NewBuyRate computes the post-trade buy-rate after delta units of the good
// leave (delta > 0) or enter (delta < 0) the market. Defined only when
// stockBefore > delta; callers must never invoke it otherwise — this is an
// invariant of the transaction core, not a recoverable input error.
func NewBuyRate(currentRate, stockBefore, delta float32) float32 {
	denom := stockBefore - delta
	if denom <= 0 {
		panic("pricing: new_buy_rate called with stockBefore <= delta")
	}
	return currentRate * stockBefore / denom
}

// NewSellRate recomputes the sell-rate from a buy-rate using the market's
// fixed greed margin.
func NewSellRate(buyRate, greed float32) float32 {
	return buyRate / greed
}

// GetBuyPrice quotes the minimum DEFAULT the market will accept to hand over
// qty of kind, given the kind's current buy-rate and stock.
func GetBuyPrice(kind types.GoodKind, qty, buyRate, stock float32) (float32, error) {
	if qty < 0 {
		return 0, &types.NonPositiveQuantityAskedError{Quantity: qty}
	}
	if qty == 0 {
		return 0, nil
	}
	if stock <= qty {
		return 0, &types.InsufficientGoodQuantityAvailableError{Kind: kind, Requested: qty, Available: stock}
	}
	return NewBuyRate(buyRate, stock, qty) * qty, nil
}

// GetSellPrice quotes the maximum DEFAULT the market will pay for qty of
// kind, given the kind's current sell-rate and the market's DEFAULT stock.
func GetSellPrice(qty, sellRate, defaultStock float32) (float32, error) {
	if qty <= 0 {
		return 0, &types.NonPositiveQuantityAskedError{Quantity: qty}
	}
	want := qty * sellRate
	if want > defaultStock {
		return defaultStock, nil
	}
	return want, nil
}

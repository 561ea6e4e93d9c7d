// Transaction core: the ordered validation gates and state transitions for
// lock_buy, buy, lock_sell, and sell (§4.4, §4.5). Grounded on
// internal/strategy/maker.go's per-tick flow (stale check -> risk check ->
// budget check -> compute -> reconcile), generalized from a single ordered
// risk-gate pipeline to this protocol's own four-gate validation chains.
package engine

import (
	"github.com/lucagiacometti19/market-fsk/internal/pricing"
	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// GetBuyPrice quotes the minimum DEFAULT the market will accept for qty of
// kind. A pure getter: it does not advance the clock or mutate state.
func (m *Market) GetBuyPrice(kind types.GoodKind, qty float32) (float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.inv.Get(kind)
	return pricing.GetBuyPrice(kind, qty, entry.BuyRate, entry.Quantity)
}

// GetSellPrice quotes the maximum DEFAULT the market will pay for qty of
// kind. A pure getter: it does not advance the clock or mutate state.
func (m *Market) GetSellPrice(kind types.GoodKind, qty float32) (float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := m.inv.Get(kind)
	return pricing.GetSellPrice(qty, entry.SellRate, m.inv.Stock(types.DEFAULT))
}

// LockBuy implements lock_buy (§4.4): reserves qty of kind against a
// trader's bid. Validation gates run in the exact documented order; the
// first failing gate wins and no state is mutated or event emitted.
func (m *Market) LockBuy(kind types.GoodKind, qty, bid float32, trader string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if qty < 0 {
		m.logLockBuy(trader, kind, qty, bid, "", false)
		return "", &types.NonPositiveQuantityToBuyError{Quantity: qty}
	}
	if bid < 0 {
		m.logLockBuy(trader, kind, qty, bid, "", false)
		return "", &types.NonPositiveBidError{Bid: bid}
	}
	stock := m.inv.Stock(kind)
	if stock < qty {
		m.logLockBuy(trader, kind, qty, bid, "", false)
		return "", &types.InsufficientGoodQuantityAvailableError{Kind: kind, Requested: qty, Available: stock}
	}
	quoted, err := pricing.GetBuyPrice(kind, qty, m.inv.Get(kind).BuyRate, stock)
	if err != nil {
		m.logLockBuy(trader, kind, qty, bid, "", false)
		return "", err
	}
	if bid < quoted {
		m.logLockBuy(trader, kind, qty, bid, "", false)
		return "", &types.BidTooLowError{Kind: kind, Quantity: qty, Bid: bid, LowestAcceptable: quoted}
	}

	m.inv.AddQuantity(kind, -qty)
	token := m.buyArchive.MintToken()
	m.buyArchive.Add(types.LockContract{
		Token:      token,
		Good:       types.Good{Kind: kind, Quantity: qty},
		Price:      bid,
		ExpiryTick: m.clock.Now() + m.constants.TTL,
	})
	m.logLockBuy(trader, kind, qty, bid, token, true)
	m.emitLocked(types.Event{Kind: types.LockedBuy, GoodKind: kind, Quantity: qty, Price: bid})
	return token, nil
}

// Buy implements buy (§4.4): settles a lock_buy contract against cash
// supplied by the caller. cash is mutated in place on success.
func (m *Market) Buy(token string, cash *types.Good) (types.Good, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	contract, active := m.buyArchive.Get(token)
	if !active {
		if m.buyArchive.IsExpired(token) {
			m.logBuy(token, false)
			return types.Good{}, &types.ExpiredTokenError{Token: token}
		}
		m.logBuy(token, false)
		return types.Good{}, &types.UnrecognizedTokenError{Token: token}
	}
	if contract.ExpiryTick <= m.clock.Now() {
		m.logBuy(token, false)
		return types.Good{}, &types.ExpiredTokenError{Token: token}
	}
	if cash.Kind != types.DEFAULT {
		m.logBuy(token, false)
		return types.Good{}, &types.GoodKindNotDefaultError{Kind: cash.Kind}
	}
	if cash.Quantity < contract.Price {
		m.logBuy(token, false)
		return types.Good{}, &types.InsufficientGoodQuantityError{Kind: types.DEFAULT, Requested: contract.Price, Available: cash.Quantity}
	}

	paid, err := cash.Split(contract.Price)
	if err != nil {
		m.logBuy(token, false)
		return types.Good{}, err
	}
	m.inv.AddQuantity(types.DEFAULT, paid.Quantity)

	kind := contract.Good.Kind
	entry := m.inv.Get(kind)
	stockAfterRestore := entry.Quantity + contract.Good.Quantity
	newBuyRate := pricing.NewBuyRate(entry.BuyRate, stockAfterRestore, contract.Good.Quantity)
	m.inv.SetRates(kind, newBuyRate)

	m.buyArchive.Consume(token)
	m.logBuy(token, true)
	m.emitLocked(types.Event{Kind: types.Bought, GoodKind: kind, Quantity: contract.Good.Quantity, Price: contract.Price})
	return types.Good{Kind: kind, Quantity: contract.Good.Quantity}, nil
}

// LockSell implements lock_sell (§4.5): reserves offer units of DEFAULT
// against a future delivery of qty of kind.
func (m *Market) LockSell(kind types.GoodKind, qty, offer float32, trader string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if qty <= 0 {
		m.logLockSell(trader, kind, qty, offer, "", false)
		return "", &types.NonPositiveQuantityToSellError{Quantity: qty}
	}
	if offer < 0 {
		m.logLockSell(trader, kind, qty, offer, "", false)
		return "", &types.NonPositiveOfferError{Offer: offer}
	}
	defaultStock := m.inv.Stock(types.DEFAULT)
	if defaultStock < offer {
		m.logLockSell(trader, kind, qty, offer, "", false)
		return "", &types.InsufficientDefaultGoodQuantityAvailableError{Kind: kind, Quantity: qty, Available: defaultStock}
	}
	quoted, err := pricing.GetSellPrice(qty, m.inv.Get(kind).SellRate, defaultStock)
	if err != nil {
		m.logLockSell(trader, kind, qty, offer, "", false)
		return "", err
	}
	if offer > quoted {
		m.logLockSell(trader, kind, qty, offer, "", false)
		return "", &types.OfferTooHighError{Kind: kind, Quantity: qty, Offer: offer, HighestQuoted: quoted}
	}

	m.inv.AddQuantity(types.DEFAULT, -offer)
	token := m.sellArchive.MintToken()
	m.sellArchive.Add(types.LockContract{
		Token:      token,
		Good:       types.Good{Kind: kind, Quantity: qty},
		Price:      offer,
		ExpiryTick: m.clock.Now() + m.constants.TTL,
	})
	m.logLockSell(trader, kind, qty, offer, token, true)
	m.emitLocked(types.Event{Kind: types.LockedSell, GoodKind: kind, Quantity: qty, Price: offer})
	return token, nil
}

// Sell implements sell (§4.5): settles a lock_sell contract against a good
// supplied by the caller. good is mutated in place on success.
func (m *Market) Sell(token string, good *types.Good) (types.Good, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	contract, active := m.sellArchive.Get(token)
	if !active {
		if m.sellArchive.IsExpired(token) {
			m.logSell(token, false)
			return types.Good{}, &types.ExpiredTokenError{Token: token}
		}
		m.logSell(token, false)
		return types.Good{}, &types.UnrecognizedTokenError{Token: token}
	}
	if contract.ExpiryTick <= m.clock.Now() {
		m.logSell(token, false)
		return types.Good{}, &types.ExpiredTokenError{Token: token}
	}
	if good.Kind != contract.Good.Kind {
		m.logSell(token, false)
		return types.Good{}, &types.WrongGoodKindError{Got: good.Kind, Want: contract.Good.Kind}
	}
	if good.Quantity < contract.Good.Quantity {
		m.logSell(token, false)
		return types.Good{}, &types.InsufficientGoodQuantityError{Kind: contract.Good.Kind, Requested: contract.Good.Quantity, Available: good.Quantity}
	}

	delivered, err := good.Split(contract.Good.Quantity)
	if err != nil {
		m.logSell(token, false)
		return types.Good{}, err
	}
	kind := contract.Good.Kind
	entryBefore := m.inv.Get(kind)
	newBuyRate := pricing.NewBuyRate(entryBefore.BuyRate, entryBefore.Quantity, -delivered.Quantity)
	m.inv.AddQuantity(kind, delivered.Quantity)
	m.inv.SetRates(kind, newBuyRate)

	m.sellArchive.Consume(token)
	m.logSell(token, true)
	m.emitLocked(types.Event{Kind: types.Sold, GoodKind: kind, Quantity: delivered.Quantity, Price: contract.Price})
	return types.Good{Kind: types.DEFAULT, Quantity: contract.Price}, nil
}

func (m *Market) logLockBuy(trader string, kind types.GoodKind, qty, bid float32, token string, ok bool) {
	if m.eventLogger != nil {
		m.eventLogger.LogLockBuy(trader, kind, qty, bid, token, ok)
	}
}

func (m *Market) logLockSell(trader string, kind types.GoodKind, qty, offer float32, token string, ok bool) {
	if m.eventLogger != nil {
		m.eventLogger.LogLockSell(trader, kind, qty, offer, token, ok)
	}
}

func (m *Market) logBuy(token string, ok bool) {
	if m.eventLogger != nil {
		m.eventLogger.LogBuy(token, ok)
	}
}

func (m *Market) logSell(token string, ok bool) {
	if m.eventLogger != nil {
		m.eventLogger.LogSell(token, ok)
	}
}

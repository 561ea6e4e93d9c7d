package types

import "fmt"

// ————————————————————————————————————————————————————————————————————————
// Getter errors (get_buy_price / get_sell_price)
// ————————————————————————————————————————————————————————————————————————

// NonPositiveQuantityAskedError is returned by a quoting or split operation
// when the requested quantity does not clear the relevant positivity gate.
type NonPositiveQuantityAskedError struct {
	Quantity float32
}

func (e *NonPositiveQuantityAskedError) Error() string {
	return fmt.Sprintf("non-positive quantity asked: %v", e.Quantity)
}

// InsufficientGoodQuantityAvailableError is returned when the market does
// not hold enough of a kind to satisfy a getter or a lock_buy request.
type InsufficientGoodQuantityAvailableError struct {
	Kind      GoodKind
	Requested float32
	Available float32
}

func (e *InsufficientGoodQuantityAvailableError) Error() string {
	return fmt.Sprintf("insufficient %s available: requested %v, available %v", e.Kind, e.Requested, e.Available)
}

// ————————————————————————————————————————————————————————————————————————
// lock_buy errors
// ————————————————————————————————————————————————————————————————————————

type NonPositiveQuantityToBuyError struct {
	Quantity float32
}

func (e *NonPositiveQuantityToBuyError) Error() string {
	return fmt.Sprintf("non-positive quantity to buy: %v", e.Quantity)
}

type NonPositiveBidError struct {
	Bid float32
}

func (e *NonPositiveBidError) Error() string {
	return fmt.Sprintf("non-positive bid: %v", e.Bid)
}

// BidTooLowError is returned when the trader's bid does not clear the
// market's current quote for (kind, qty).
type BidTooLowError struct {
	Kind            GoodKind
	Quantity        float32
	Bid             float32
	LowestAcceptable float32
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid %v too low for %v %s: lowest acceptable is %v", e.Bid, e.Quantity, e.Kind, e.LowestAcceptable)
}

// MaxAllowedLocksReachedError is part of the protocol's error taxonomy but
// unused by this core: it has no configured lock-count ceiling.
type MaxAllowedLocksReachedError struct{}

func (e *MaxAllowedLocksReachedError) Error() string {
	return "maximum allowed locks reached"
}

// ————————————————————————————————————————————————————————————————————————
// lock_sell errors
// ————————————————————————————————————————————————————————————————————————

type NonPositiveQuantityToSellError struct {
	Quantity float32
}

func (e *NonPositiveQuantityToSellError) Error() string {
	return fmt.Sprintf("non-positive quantity to sell: %v", e.Quantity)
}

type NonPositiveOfferError struct {
	Offer float32
}

func (e *NonPositiveOfferError) Error() string {
	return fmt.Sprintf("non-positive offer: %v", e.Offer)
}

type InsufficientDefaultGoodQuantityAvailableError struct {
	Kind      GoodKind
	Quantity  float32
	Available float32
}

func (e *InsufficientDefaultGoodQuantityAvailableError) Error() string {
	return fmt.Sprintf("insufficient DEFAULT available to lock sell of %v %s: available %v", e.Quantity, e.Kind, e.Available)
}

type OfferTooHighError struct {
	Kind           GoodKind
	Quantity       float32
	Offer          float32
	HighestQuoted  float32
}

func (e *OfferTooHighError) Error() string {
	return fmt.Sprintf("offer %v too high for %v %s: highest acceptable is %v", e.Offer, e.Quantity, e.Kind, e.HighestQuoted)
}

// ————————————————————————————————————————————————————————————————————————
// buy / sell settlement errors
// ————————————————————————————————————————————————————————————————————————

type UnrecognizedTokenError struct {
	Token string
}

func (e *UnrecognizedTokenError) Error() string {
	return fmt.Sprintf("unrecognized token: %s", e.Token)
}

type ExpiredTokenError struct {
	Token string
}

func (e *ExpiredTokenError) Error() string {
	return fmt.Sprintf("expired token: %s", e.Token)
}

type GoodKindNotDefaultError struct {
	Kind GoodKind
}

func (e *GoodKindNotDefaultError) Error() string {
	return fmt.Sprintf("good kind %s is not DEFAULT", e.Kind)
}

type WrongGoodKindError struct {
	Got  GoodKind
	Want GoodKind
}

func (e *WrongGoodKindError) Error() string {
	return fmt.Sprintf("wrong good kind: got %s, want %s", e.Got, e.Want)
}

// InsufficientGoodQuantityError is returned by buy/sell when the caller's
// supplied Good does not cover the contract's reserved price/quantity.
type InsufficientGoodQuantityError struct {
	Kind      GoodKind
	Requested float32
	Available float32
}

func (e *InsufficientGoodQuantityError) Error() string {
	return fmt.Sprintf("insufficient %s supplied: requested %v, available %v", e.Kind, e.Requested, e.Available)
}

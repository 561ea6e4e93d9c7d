package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

func approxEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func TestGetBuyPriceWorkedExample(t *testing.T) {
	t.Parallel()
	// §8 scenario 1: stock[A]=100, buy_rate[A]=1, qty=10.
	price, err := GetBuyPrice(types.A, 10, 1, 100)
	if err != nil {
		t.Fatalf("GetBuyPrice: %v", err)
	}
	want := float32(11.111111)
	if !approxEqual(price, want, 0.001) {
		t.Errorf("price = %v, want ~%v", price, want)
	}
}

func TestGetBuyPriceZeroQuantity(t *testing.T) {
	t.Parallel()
	price, err := GetBuyPrice(types.A, 0, 1, 100)
	if err != nil {
		t.Fatalf("GetBuyPrice(qty=0): %v", err)
	}
	if price != 0 {
		t.Errorf("price = %v, want 0", price)
	}
}

func TestGetBuyPriceNegativeQuantity(t *testing.T) {
	t.Parallel()
	_, err := GetBuyPrice(types.A, -1, 1, 100)
	var want *types.NonPositiveQuantityAskedError
	if !errors.As(err, &want) {
		t.Fatalf("err = %v, want NonPositiveQuantityAskedError", err)
	}
}

func TestGetBuyPriceExactStockIsInsufficient(t *testing.T) {
	t.Parallel()
	_, err := GetBuyPrice(types.A, 100, 1, 100)
	var want *types.InsufficientGoodQuantityAvailableError
	if !errors.As(err, &want) {
		t.Fatalf("err = %v, want InsufficientGoodQuantityAvailableError", err)
	}
}

func TestGetSellPriceWorkedExample(t *testing.T) {
	t.Parallel()
	// §8 scenario 3: sell_rate[A] = 1/1.01, qty=10, defaultStock=100.
	price, err := GetSellPrice(10, 1/float32(1.01), 100)
	if err != nil {
		t.Fatalf("GetSellPrice: %v", err)
	}
	want := float32(9.9009901)
	if !approxEqual(price, want, 0.001) {
		t.Errorf("price = %v, want ~%v", price, want)
	}
}

func TestGetSellPriceCapsAtDefaultStock(t *testing.T) {
	t.Parallel()
	price, err := GetSellPrice(1000, 1, 50)
	if err != nil {
		t.Fatalf("GetSellPrice: %v", err)
	}
	if price != 50 {
		t.Errorf("price = %v, want 50 (capped)", price)
	}
}

func TestGetSellPriceNonPositiveQuantity(t *testing.T) {
	t.Parallel()
	_, err := GetSellPrice(0, 1, 100)
	var want *types.NonPositiveQuantityAskedError
	if !errors.As(err, &want) {
		t.Fatalf("err = %v, want NonPositiveQuantityAskedError", err)
	}
}

func TestNewBuyRateSettlementExample(t *testing.T) {
	t.Parallel()
	// §8 scenario 1 settlement: stock_before=100 (pre-lock), delta=10 restored.
	got := NewBuyRate(1, 100, 10)
	want := float32(1.1111111)
	if !approxEqual(got, want, 0.001) {
		t.Errorf("NewBuyRate = %v, want ~%v", got, want)
	}
}

func TestNewBuyRateSellSettlementExample(t *testing.T) {
	t.Parallel()
	// §8 scenario 3 settlement: stock_before=100 (pre-sell), delta=-10 delivered.
	got := NewBuyRate(1, 100, -10)
	want := float32(0.909091)
	if !approxEqual(got, want, 0.001) {
		t.Errorf("NewBuyRate = %v, want ~%v", got, want)
	}
}

func TestNewBuyRatePanicsOnInvalidStock(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for stockBefore <= delta")
		}
	}()
	NewBuyRate(1, 10, 10)
}

func TestNewSellRate(t *testing.T) {
	t.Parallel()
	got := NewSellRate(1.1111111, 1.01)
	want := float32(1.1001101)
	if !approxEqual(got, want, 0.001) {
		t.Errorf("NewSellRate = %v, want ~%v", got, want)
	}
}

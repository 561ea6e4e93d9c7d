package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

type stubMarket struct {
	name string
	tick uint64
	snap map[types.GoodKind]types.InventoryEntry

	lockBuyToken string
	lockBuyErr   error
	buyGood      types.Good
	buyErr       error
}

func (s *stubMarket) Name() string { return s.name }
func (s *stubMarket) Now() uint64  { return s.tick }
func (s *stubMarket) GetBuyPrice(kind types.GoodKind, qty float32) (float32, error) {
	return 10, nil
}
func (s *stubMarket) GetSellPrice(kind types.GoodKind, qty float32) (float32, error) {
	return 5, nil
}
func (s *stubMarket) LockBuy(kind types.GoodKind, qty, bid float32, trader string) (string, error) {
	return s.lockBuyToken, s.lockBuyErr
}
func (s *stubMarket) Buy(token string, cash *types.Good) (types.Good, error) {
	return s.buyGood, s.buyErr
}
func (s *stubMarket) LockSell(kind types.GoodKind, qty, offer float32, trader string) (string, error) {
	return "", nil
}
func (s *stubMarket) Sell(token string, good *types.Good) (types.Good, error) {
	return types.Good{}, nil
}
func (s *stubMarket) Snapshot() map[types.GoodKind]types.InventoryEntry { return s.snap }
func (s *stubMarket) AddSubscriber(types.EventSink)                    {}

func TestHandleSnapshotReturnsMarketState(t *testing.T) {
	t.Parallel()
	m := &stubMarket{name: "m1", tick: 7, snap: map[types.GoodKind]types.InventoryEntry{
		types.DEFAULT: {Kind: types.DEFAULT, Quantity: 1000, BuyRate: 1, SellRate: 1},
	}}
	h := NewHandlers(m, nil, nil, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	h.HandleSnapshot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got SnapshotResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Market != "m1" || got.Tick != 7 {
		t.Errorf("response = %+v", got)
	}
}

func TestHandleLockBuySuccess(t *testing.T) {
	t.Parallel()
	m := &stubMarket{lockBuyToken: "tok123"}
	h := NewHandlers(m, nil, nil, testLogger())

	body, _ := json.Marshal(LockBuyRequest{Kind: types.A, Qty: 10, Bid: 20, Trader: "t"})
	req := httptest.NewRequest(http.MethodPost, "/api/lock-buy", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleLockBuy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	var got LockBuyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Token != "tok123" {
		t.Errorf("token = %q, want tok123", got.Token)
	}
}

func TestHandleLockBuyInvalidBody(t *testing.T) {
	t.Parallel()
	m := &stubMarket{}
	h := NewHandlers(m, nil, nil, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/lock-buy", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	h.HandleLockBuy(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandleBuyMapsExpiredTokenTo404(t *testing.T) {
	t.Parallel()
	m := &stubMarket{buyErr: &types.ExpiredTokenError{Token: "tok"}}
	h := NewHandlers(m, nil, nil, testLogger())

	body, _ := json.Marshal(BuyRequest{Token: "tok", Cash: 20})
	req := httptest.NewRequest(http.MethodPost, "/api/buy", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleBuy(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePricesDefaultsQuantityToOne(t *testing.T) {
	t.Parallel()
	m := &stubMarket{}
	h := NewHandlers(m, nil, nil, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/prices", nil)
	rec := httptest.NewRecorder()
	h.HandlePrices(rec, req)

	var quotes []PriceQuote
	if err := json.Unmarshal(rec.Body.Bytes(), &quotes); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(quotes) != len(types.Kinds) {
		t.Fatalf("got %d quotes, want %d", len(quotes), len(types.Kinds))
	}
	for _, q := range quotes {
		if q.Quantity != 1 {
			t.Errorf("quote %+v, want quantity=1 default", q)
		}
	}
}

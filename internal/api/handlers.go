package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// Handlers holds all HTTP handler dependencies.
type Handlers struct {
	market         MarketAPI
	allowedOrigins []string
	hub            *Hub
	logger         *slog.Logger
}

// NewHandlers creates a new handlers instance.
func NewHandlers(market MarketAPI, allowedOrigins []string, hub *Hub, logger *slog.Logger) *Handlers {
	return &Handlers{
		market:         market,
		allowedOrigins: allowedOrigins,
		hub:            hub,
		logger:         logger.With("component", "api-handlers"),
	}
}

// HandleHealth returns a simple health check response.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleSnapshot returns the market's current ledger and tick.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, BuildSnapshotResponse(h.market))
}

// HandlePrices returns buy/sell quotes for every kind at the requested
// quantity (query param "quantity", default 1).
func (h *Handlers) HandlePrices(w http.ResponseWriter, r *http.Request) {
	qty := float32(1)
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 32); err == nil {
			qty = float32(parsed)
		}
	}
	writeJSON(w, http.StatusOK, BuildPriceQuotes(h.market, qty))
}

// HandleLockBuy implements POST /api/lock-buy.
func (h *Handlers) HandleLockBuy(w http.ResponseWriter, r *http.Request) {
	var req LockBuyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.market.LockBuy(req.Kind, req.Qty, req.Bid, req.Trader)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LockBuyResponse{Token: token})
}

// HandleBuy implements POST /api/buy.
func (h *Handlers) HandleBuy(w http.ResponseWriter, r *http.Request) {
	var req BuyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cash := types.Good{Kind: types.DEFAULT, Quantity: req.Cash}
	good, err := h.market.Buy(req.Token, &cash)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BuyResponse{Kind: good.Kind, Quantity: good.Quantity})
}

// HandleLockSell implements POST /api/lock-sell.
func (h *Handlers) HandleLockSell(w http.ResponseWriter, r *http.Request) {
	var req LockSellRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := h.market.LockSell(req.Kind, req.Qty, req.Offer, req.Trader)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LockSellResponse{Token: token})
}

// HandleSell implements POST /api/sell.
func (h *Handlers) HandleSell(w http.ResponseWriter, r *http.Request) {
	var req SellRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	good := types.Good{Kind: req.Kind, Quantity: req.Quantity}
	paid, err := h.market.Sell(req.Token, &good)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SellResponse{Quantity: paid.Quantity})
}

// HandleWebSocket upgrades the connection and creates a new WebSocket client.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(req *http.Request) bool {
			return isOriginAllowed(req.Header.Get("Origin"), h.allowedOrigins, req.Host)
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	NewClient(h.hub, conn)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps a transaction-core error to an HTTP status. Unrecognized
// or expired tokens are reported as not-found; every other validation-gate
// error is a bad request.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	var (
		unrecognized *types.UnrecognizedTokenError
		expired      *types.ExpiredTokenError
	)
	if errors.As(err, &unrecognized) || errors.As(err, &expired) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func isOriginAllowed(origin string, allowedOrigins []string, reqHost string) bool {
	if origin == "" {
		// Non-browser clients often omit Origin; keep this path functional.
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	normalized := normalizeOrigin(originURL.Scheme, originURL.Host)
	if normalized == "" {
		return false
	}

	if len(allowedOrigins) > 0 {
		for _, allowed := range allowedOrigins {
			u, err := url.Parse(allowed)
			if err != nil {
				continue
			}
			if normalized == normalizeOrigin(u.Scheme, u.Host) {
				return true
			}
		}
		return false
	}

	host := strings.ToLower(originURL.Hostname())
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return true
	}

	reqHostname := normalizeHost(reqHost)
	return reqHostname != "" && host == reqHostname
}

func normalizeOrigin(scheme, host string) string {
	if scheme == "" || host == "" {
		return ""
	}
	return strings.ToLower(scheme) + "://" + strings.ToLower(host)
}

func normalizeHost(hostport string) string {
	hostport = strings.TrimSpace(hostport)
	if hostport == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return strings.ToLower(host)
	}
	return strings.ToLower(hostport)
}

// Package api implements the §4.8 HTTP/WebSocket transport surface: a
// thin REST front-end over a Market's transaction-core operations plus a
// WebSocket event stream, grounded on the teacher's dashboard Server/Hub.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server runs the HTTP/WebSocket API in front of a single Market.
type Server struct {
	addr     string
	market   MarketAPI
	hub      *Hub
	handlers *Handlers
	server   *http.Server
	logger   *slog.Logger
}

// NewServer creates a new API server bound to addr, driving market, and
// restricting WebSocket upgrades to allowedOrigins (empty means
// localhost-only, matching the teacher's default).
func NewServer(addr string, market MarketAPI, allowedOrigins []string, logger *slog.Logger) *Server {
	hub := NewHub(logger)
	handlers := NewHandlers(market, allowedOrigins, hub, logger)
	market.AddSubscriber(hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handlers.HandleHealth)
	mux.HandleFunc("/api/snapshot", handlers.HandleSnapshot)
	mux.HandleFunc("/api/prices", handlers.HandlePrices)
	mux.HandleFunc("/api/lock-buy", handlers.HandleLockBuy)
	mux.HandleFunc("/api/buy", handlers.HandleBuy)
	mux.HandleFunc("/api/lock-sell", handlers.HandleLockSell)
	mux.HandleFunc("/api/sell", handlers.HandleSell)
	mux.HandleFunc("/ws/events", handlers.HandleWebSocket)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		addr:     addr,
		market:   market,
		hub:      hub,
		handlers: handlers,
		server:   server,
		logger:   logger.With("component", "api-server"),
	}
}

// Start runs the WebSocket hub and the HTTP server. Blocks until the
// server stops; returns nil on a clean Stop().
func (s *Server) Start() error {
	go s.hub.Run()

	s.logger.Info("api server starting", "addr", s.addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	s.logger.Info("stopping api server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

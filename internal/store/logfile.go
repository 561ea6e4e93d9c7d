// §6 log file writer: one line per significant event, appended, with
// fields <market-name>|<local-timestamp YY:MM:DD:HH:MM:SS:mmm>|<record>.
// Failures to write are non-fatal (§7) — they are logged to the side
// channel slog.Logger and otherwise swallowed.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// EventLog appends §6-formatted lines to a log file for one named market.
type EventLog struct {
	path   string
	market string
	logger *slog.Logger
}

// NewEventLog builds an EventLog writing to path for the named market.
// logger receives diagnostics for write failures; it may be nil.
func NewEventLog(path, market string, logger *slog.Logger) *EventLog {
	return &EventLog{path: path, market: market, logger: logger}
}

func (l *EventLog) append(record string) {
	line := fmt.Sprintf("%s|%s|%s\n", l.market, time.Now().Format("06:01:02:15:04:05:000"), record)
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if l.logger != nil {
			l.logger.Warn("log file open failed", "path", l.path, "err", err)
		}
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil && l.logger != nil {
		l.logger.Warn("log file write failed", "path", l.path, "err", err)
	}
}

// LogInit records market initialization with its starting quantities.
func (l *EventLog) LogInit(name string, entries map[types.GoodKind]types.InventoryEntry) {
	record := fmt.Sprintf("INIT-DEFAULT:%v-A:%v-B:%v-C:%v",
		entries[types.DEFAULT].Quantity, entries[types.A].Quantity, entries[types.B].Quantity, entries[types.C].Quantity)
	l.append(record)
}

// LogLockBuy records a lock_buy attempt, successful or not.
func (l *EventLog) LogLockBuy(trader string, kind types.GoodKind, qty, bid float32, token string, ok bool) {
	suffix := "ERROR"
	if ok {
		suffix = "TOKEN:" + token
	}
	l.append(fmt.Sprintf("LOCK_BUY-%s-KIND:%s-QTY:%v-BID:%v-%s", trader, kind, qty, bid, suffix))
}

// LogLockSell records a lock_sell attempt, successful or not.
func (l *EventLog) LogLockSell(trader string, kind types.GoodKind, qty, offer float32, token string, ok bool) {
	suffix := "ERROR"
	if ok {
		suffix = "TOKEN:" + token
	}
	l.append(fmt.Sprintf("LOCK_SELL-%s-KIND:%s-QTY:%v-OFFER:%v-%s", trader, kind, qty, offer, suffix))
}

// LogBuy records a buy settlement attempt, successful or not.
func (l *EventLog) LogBuy(token string, ok bool) {
	status := "ERROR"
	if ok {
		status = "OK"
	}
	l.append(fmt.Sprintf("BUY-TOKEN:%s-%s", token, status))
}

// LogSell records a sell settlement attempt, successful or not.
func (l *EventLog) LogSell(token string, ok bool) {
	status := "ERROR"
	if ok {
		status = "OK"
	}
	l.append(fmt.Sprintf("SELL-TOKEN:%s-%s", token, status))
}

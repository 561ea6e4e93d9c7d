// RemoteSubscriber notifies a peer market's webhook over HTTP whenever
// this market emits an event, implementing the §4.7 event bus's
// subscriber side across a process boundary. Grounded on
// internal/exchange/client.go's resty-backed REST client with retry and
// rate limiting, generalized from the Polymarket CLOB order endpoints
// down to a single POST-and-forget webhook call.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lucagiacometti19/market-fsk/pkg/types"
)

// RemoteSubscriber implements types.EventSink by POSTing each event to a
// peer's webhook URL, subject to a token-bucket rate limit.
type RemoteSubscriber struct {
	http *resty.Client
	rl   *tokenBucket
	url  string

	logger *slog.Logger
}

// NewRemoteSubscriber builds a RemoteSubscriber posting to url, throttled
// to ratePerSec requests/sec with the given burst capacity.
func NewRemoteSubscriber(url string, ratePerSec float64, burst int, timeout time.Duration, logger *slog.Logger) *RemoteSubscriber {
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	if burst <= 0 {
		burst = 5
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")

	return &RemoteSubscriber{
		http:   httpClient,
		rl:     newTokenBucket(float64(burst), ratePerSec),
		url:    url,
		logger: logger.With("component", "peer-subscriber", "url", url),
	}
}

// ReceiveEvent implements types.EventSink: it rate-limits then POSTs the
// event to the configured webhook URL. Delivery failures are logged and
// swallowed — a peer's unavailability never blocks this market's own
// event bus (§4.7 never mutates or retries at the emitter).
func (r *RemoteSubscriber) ReceiveEvent(e types.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.rl.wait(ctx); err != nil {
		r.logger.Warn("rate limit wait failed", "err", err)
		return nil
	}

	resp, err := r.http.R().
		SetContext(ctx).
		SetBody(wsEnvelope{Type: "event", Event: e}).
		Post(r.url)
	if err != nil {
		r.logger.Warn("peer notify failed", "err", err)
		return nil
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		r.logger.Warn("peer notify rejected", "status", resp.StatusCode())
	}
	return nil
}

var _ types.EventSink = (*RemoteSubscriber)(nil)

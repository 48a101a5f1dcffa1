package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"tcw-alerts/internal/metrics"
)

// Tick is one instrument's latest price as delivered by the stream. The
// price stays a string until the matcher parses it; a bad value should cost
// one alert check, not the whole batch.
type Tick struct {
	Symbol    string
	LastPrice string
}

// envelope is the combined-stream frame Binance sends for !miniTicker@arr:
// an array of mini tickers under "data".
type envelope struct {
	Stream string `json:"stream"`
	Data   []struct {
		Symbol    string `json:"s"`
		LastPrice string `json:"c"`
	} `json:"data"`
}

const handshakeTimeout = 10 * time.Second

// Feed maintains a websocket subscription to the price stream and emits tick
// batches as they arrive. There is no replay: only ticks received while
// connected are seen.
type Feed struct {
	url            string
	reconnectDelay time.Duration
}

// New creates a feed for the given combined-stream URL. reconnectDelay is
// how long to wait before redialing after the connection drops.
func New(url string, reconnectDelay time.Duration) *Feed {
	return &Feed{url: url, reconnectDelay: reconnectDelay}
}

// Run keeps the subscription alive until ctx is cancelled, sending each
// decoded batch to out. A dropped connection is logged, counted and redialed
// after the configured delay; it never fails the process.
func (f *Feed) Run(ctx context.Context, out chan<- []Tick) error {
	for {
		if err := f.consume(ctx, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Errorf("❌ WebSocket error: %v. Reconnecting in %s...", err, f.reconnectDelay)
			metrics.FeedReconnects.Inc()
			select {
			case <-time.After(f.reconnectDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		return nil
	}
}

func (f *Feed) consume(ctx context.Context, out chan<- []Tick) error {
	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return errors.Wrapf(err, "could not dial stream at %s", f.url)
	}
	defer conn.Close()

	log.Infof("🚀 Connected to price stream: %s", f.url)

	// Unblock the blocking read when the context is cancelled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, "stream read failed")
		}

		batch := DecodeBatch(message)
		if len(batch) == 0 {
			continue
		}

		select {
		case out <- batch:
			metrics.BatchesTotal.Inc()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// DecodeBatch turns one raw stream frame into ticks. Entries without a
// symbol or price are skipped, and an undecodable frame yields an empty
// batch; neither is fatal.
func DecodeBatch(message []byte) []Tick {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		log.Warnf("⚠️ Failed to decode stream frame: %v", err)
		return nil
	}

	ticks := make([]Tick, 0, len(env.Data))
	for _, entry := range env.Data {
		if entry.Symbol == "" || entry.LastPrice == "" {
			continue
		}
		ticks = append(ticks, Tick{Symbol: entry.Symbol, LastPrice: entry.LastPrice})
		metrics.TicksTotal.Inc()
	}
	return ticks
}

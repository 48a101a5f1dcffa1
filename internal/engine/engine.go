package engine

import (
	"context"
	"strconv"

	log "github.com/sirupsen/logrus"

	"tcw-alerts/internal/alert"
	"tcw-alerts/internal/feed"
	"tcw-alerts/internal/metrics"
	"tcw-alerts/internal/store"
)

// Buffer is the tolerance around an alert's entry price: a tick within
// ±0.25% of the entry triggers the alert. Boundaries are inclusive.
const Buffer = 0.0025

// TriggerEvent records that a tick price fell inside an alert's band.
// Each event is consumed exactly once by the trigger pipeline.
type TriggerEvent struct {
	Alert        alert.Alert
	MatchedPrice float64
}

// Notifier is the outbound channel triggered alerts are announced on.
// Delivery is best-effort; the engine only observes the result for logging.
type Notifier interface {
	Notify(a alert.Alert, matchedPrice float64) error
}

// Engine ties one tick feed to the alert store: for every batch it snapshots
// the store, matches, dispatches notifications and retires the winners.
type Engine struct {
	store    store.Store
	notifier Notifier
}

// New creates an engine over the given store and notification channel.
func New(s store.Store, n Notifier) *Engine {
	return &Engine{store: s, notifier: n}
}

// Match checks one tick batch against a snapshot of the alert set and
// returns a trigger event for every alert whose band contains the tick
// price. If a symbol appears more than once in the batch, the first tick
// wins; an alert can trigger at most once per batch.
func Match(batch []feed.Tick, alerts []alert.Alert) []TriggerEvent {
	if len(alerts) == 0 {
		return nil
	}

	bySymbol := make(map[string]feed.Tick, len(batch))
	for _, t := range batch {
		if _, seen := bySymbol[t.Symbol]; !seen {
			bySymbol[t.Symbol] = t
		}
	}

	var events []TriggerEvent
	for _, a := range alerts {
		tick, ok := bySymbol[a.Symbol]
		if !ok {
			continue
		}

		price, err := strconv.ParseFloat(tick.LastPrice, 64)
		if err != nil {
			continue
		}

		if a.EntryPrice <= 0 {
			log.Warnf("⚠️ Skipping alert %s: invalid entry price %v", a.ID, a.EntryPrice)
			continue
		}

		tolerance := a.EntryPrice * Buffer
		lowerBound := a.EntryPrice - tolerance
		upperBound := a.EntryPrice + tolerance
		if price >= lowerBound && price <= upperBound {
			events = append(events, TriggerEvent{Alert: a, MatchedPrice: price})
		}
	}
	return events
}

// Run consumes tick batches until ctx is cancelled or the channel closes.
// Batches are handled one at a time, so a later batch is always matched
// against a store the previous batch's retirement has already reached.
func (e *Engine) Run(ctx context.Context, batches <-chan []feed.Tick) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			e.ProcessBatch(batch)
		}
	}
}

// ProcessBatch runs one full snapshot → match → dispatch → retire cycle.
func (e *Engine) ProcessBatch(batch []feed.Tick) {
	alerts, err := e.store.ListAll()
	if err != nil {
		log.Errorf("❌ Failed to fetch alerts from the store: %v", err)
		return
	}
	metrics.ActiveAlerts.Set(float64(len(alerts)))
	if len(alerts) == 0 {
		return
	}

	events := Match(batch, alerts)
	if len(events) == 0 {
		return
	}

	triggeredIDs := make([]string, 0, len(events))
	for _, ev := range events {
		log.Infof("✅ Alert triggered: %s %s entry %v matched %v",
			ev.Alert.Symbol, ev.Alert.Side, ev.Alert.EntryPrice, ev.MatchedPrice)
		metrics.AlertsTriggered.WithLabelValues(ev.Alert.Symbol).Inc()
		triggeredIDs = append(triggeredIDs, ev.Alert.ID)

		// Fire and forget: dispatch never gates retirement, and a failed
		// send must not hold up the rest of the batch.
		go e.dispatch(ev)
	}

	if err := e.store.DeleteByIDs(triggeredIDs); err != nil {
		// The alerts stay in the store and may notify again on a later
		// batch; duplicates are tolerated, silent loss is not.
		log.Errorf("❌ Failed to retire %d triggered alert(s): %v", len(triggeredIDs), err)
	}
}

func (e *Engine) dispatch(ev TriggerEvent) {
	if err := e.notifier.Notify(ev.Alert, ev.MatchedPrice); err != nil {
		log.Errorf("❌ Failed to send notification for alert %s: %v", ev.Alert.ID, err)
		metrics.NotificationsFailed.Inc()
		return
	}
	metrics.NotificationsSent.Inc()
}

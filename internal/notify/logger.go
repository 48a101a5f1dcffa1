package notify

import (
	log "github.com/sirupsen/logrus"

	"tcw-alerts/internal/alert"
)

// Logger is a notifier that only logs triggers. It stands in for the
// telegram channel when no bot token is configured.
type Logger struct{}

func (Logger) Notify(a alert.Alert, matchedPrice float64) error {
	log.Warnf("🚨 ALERT %s %s entry %v matched %v tag %q",
		a.Symbol, a.Side, a.EntryPrice, matchedPrice, a.Tag)
	return nil
}

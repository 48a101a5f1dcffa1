package alert

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Side labels the direction of the trade an alert was created for. It only
// affects how the notification is rendered, never whether the alert matches.
const (
	SideLong  = "long"
	SideShort = "short"
)

// DefaultTag is used when the creator did not attach a note to the alert.
const DefaultTag = "deviation"

// Alert is a standing request to be notified once the live price comes back
// inside the tolerance band around EntryPrice. It stays active until it
// triggers or is removed by a bulk overwrite.
type Alert struct {
	ID         string  `json:"id"`
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	EntryPrice float64 `json:"entryPrice"`
	Tag        string  `json:"tag,omitempty"`
	SignalTime string  `json:"signalTime"`
}

// Normalize uppercases the symbol, lowercases the side and fills in the
// default tag. Call before Validate.
func (a *Alert) Normalize() {
	a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
	a.Side = strings.ToLower(strings.TrimSpace(a.Side))
	if strings.TrimSpace(a.Tag) == "" {
		a.Tag = DefaultTag
	}
}

// Validate checks the fields every stored alert must carry.
func (a *Alert) Validate() error {
	if a.Symbol == "" {
		return errors.New("missing symbol")
	}
	if a.Side != SideLong && a.Side != SideShort {
		return errors.Errorf("invalid side %q, must be %q or %q", a.Side, SideLong, SideShort)
	}
	if a.EntryPrice <= 0 {
		return errors.New("entryPrice must be positive")
	}
	if a.SignalTime == "" {
		return errors.New("missing signalTime")
	}
	return nil
}

// AssignID gives the alert a fresh server-side id, replacing whatever the
// client may have sent.
func (a *Alert) AssignID() {
	a.ID = uuid.NewString()
}

// IsLong reports whether the alert was created for a long entry.
func (a *Alert) IsLong() bool {
	return a.Side == SideLong
}

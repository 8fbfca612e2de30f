// Package realtime defines the change-notification collaborator the order and
// ledger flows notify after a successful write. Delivery itself (websocket
// fan-out, postgres logical replication, a hosted channel service) is an
// external concern; consumers treat every event as a cue to re-fetch
// authoritative state, never as carrying that state.
package realtime

import "github.com/rs/zerolog/log"

// Event names mirror the two tables dashboards subscribe to.
const (
	EventOrderCreated   = "order_created"
	EventOrderUpdated   = "order_updated"
	EventBalanceChanged = "balance_changed"
)

// Notifier receives row-change cues keyed by tenant. Implementations must
// tolerate at-least-once invocation and make no ordering assumptions.
type Notifier interface {
	OrderChanged(restaurantID, orderID int64, event string)
	BalanceChanged(restaurantID int64)
}

// LogNotifier is the default Notifier: it records each cue in the structured
// log, where an external delivery process can tail it or a real transport can
// replace it at wiring time.
type LogNotifier struct{}

// NewLogNotifier creates the logging Notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) OrderChanged(restaurantID, orderID int64, event string) {
	log.Info().
		Str("event", event).
		Int64("restaurant_id", restaurantID).
		Int64("order_id", orderID).
		Msg("realtime notification")
}

func (n *LogNotifier) BalanceChanged(restaurantID int64) {
	log.Info().
		Str("event", EventBalanceChanged).
		Int64("restaurant_id", restaurantID).
		Msg("realtime notification")
}

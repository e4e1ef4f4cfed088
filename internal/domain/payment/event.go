package payment

import "time"

type EventType string

const (
	EventCheckoutCompleted EventType = "checkout.session.completed"
	EventCheckoutFailed    EventType = "checkout.session.failed"
	EventCheckoutExpired   EventType = "checkout.session.expired"
	EventRefundSucceeded   EventType = "refund.succeeded"
)

// GatewayEvent is a verified inbound notification from the payment gateway.
type GatewayEvent struct {
	ID        string
	Type      EventType
	Reference string
	CreatedAt time.Time
}

// TargetStatus maps an event type onto the payment status it reports.
// ok is false for types the engine does not act on.
func (e GatewayEvent) TargetStatus() (Status, bool) {
	switch e.Type {
	case EventCheckoutCompleted:
		return StatusSucceeded, true
	case EventCheckoutFailed, EventCheckoutExpired:
		return StatusFailed, true
	case EventRefundSucceeded:
		return StatusRefunded, true
	}
	return "", false
}

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeIgnored   Outcome = "ignored"
)

package printer

import "fmt"

// OutcomeKind classifies one delivery attempt.
type OutcomeKind string

const (
	OutcomeDelivered        OutcomeKind = "delivered"
	OutcomeConnectionFailed OutcomeKind = "connection_failed"
	OutcomeTimedOut         OutcomeKind = "timed_out"
	OutcomePartialWrite     OutcomeKind = "partial_write"
)

// Outcome is the result of one printer submission. Reason is set for
// connection failures, BytesSent/BytesTotal for partial writes.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	Reason     string      `json:"reason,omitempty"`
	BytesSent  int         `json:"bytes_sent,omitempty"`
	BytesTotal int         `json:"bytes_total,omitempty"`
}

// Delivered reports whether the full payload reached the printer.
func (o Outcome) Delivered() bool {
	return o.Kind == OutcomeDelivered
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeConnectionFailed:
		return fmt.Sprintf("%s: %s", o.Kind, o.Reason)
	case OutcomePartialWrite:
		return fmt.Sprintf("%s: %d/%d bytes", o.Kind, o.BytesSent, o.BytesTotal)
	default:
		return string(o.Kind)
	}
}

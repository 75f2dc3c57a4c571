// Package batch coordinates multi-record label dispatch: resolve fields,
// render, deliver, and aggregate one outcome per input record.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wiredlabs/labelctl/internal/label"
	"github.com/wiredlabs/labelctl/internal/printer"
)

// Deliverer sends one rendered label to one printer target.
type Deliverer interface {
	Deliver(ctx context.Context, markup string, target printer.Target) printer.Outcome
}

// Request is one batch dispatch call.
type Request struct {
	Records  []label.CableRecord
	Template label.Template
	Target   printer.Target
	Copies   int
	BaseURL  string

	// Metadata carried into the audit entry.
	User       string
	PrinterID  string
	TemplateID string
}

// RecordOutcome pairs one source record with its delivery outcome.
type RecordOutcome struct {
	RecordID int64           `json:"record_id"`
	CableID  string          `json:"cable_id"`
	Outcome  printer.Outcome `json:"outcome"`
}

// Result is the immutable outcome of one completed batch.
type Result struct {
	ID        string          `json:"id"`
	Outcomes  []RecordOutcome `json:"outcomes"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	CreatedAt time.Time       `json:"created_at"`
}

// AuditEntry is the append-only history record written once per batch.
type AuditEntry struct {
	Result     Result    `json:"result"`
	User       string    `json:"user,omitempty"`
	PrinterID  string    `json:"printer_id"`
	TemplateID string    `json:"template_id"`
	Copies     int       `json:"copies"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditSink receives one entry per completed batch, never incrementally.
type AuditSink interface {
	Append(ctx context.Context, entry AuditEntry) error
}

// Coordinator runs batches sequentially, one delivery connection at a time.
type Coordinator struct {
	deliver Deliverer
	sink    AuditSink
	clock   func() time.Time
	log     zerolog.Logger
}

// NewCoordinator wires a coordinator. sink may be nil to skip audit writes.
func NewCoordinator(deliver Deliverer, sink AuditSink, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		deliver: deliver,
		sink:    sink,
		clock:   time.Now,
		log:     log,
	}
}

// Dispatch processes every record independently and returns one outcome per
// record in input order. A record's failure never aborts its siblings.
// Cancellation stops issuing new deliveries; records not attempted are
// reported as connection failures carrying the cancellation reason. The
// returned error reflects only the audit write, never delivery outcomes.
func (c *Coordinator) Dispatch(ctx context.Context, req Request) (Result, error) {
	copies := req.Copies
	if copies < 1 {
		copies = 1
	}
	today := c.clock()

	outcomes := make([]RecordOutcome, 0, len(req.Records))
	succeeded, failed := 0, 0

	for _, rec := range req.Records {
		outcome := c.dispatchRecord(ctx, rec, req, copies, today)
		outcomes = append(outcomes, RecordOutcome{
			RecordID: rec.ID,
			CableID:  rec.CableID(),
			Outcome:  outcome,
		})
		if outcome.Delivered() {
			succeeded++
		} else {
			failed++
		}
	}

	result := Result{
		ID:        uuid.NewString(),
		Outcomes:  outcomes,
		Succeeded: succeeded,
		Failed:    failed,
		CreatedAt: c.clock(),
	}

	c.log.Info().
		Str("batch_id", result.ID).
		Str("printer_id", req.PrinterID).
		Str("template_id", req.TemplateID).
		Int("succeeded", succeeded).
		Int("failed", failed).
		Msg("batch_completed")

	if c.sink != nil {
		entry := AuditEntry{
			Result:     result,
			User:       req.User,
			PrinterID:  req.PrinterID,
			TemplateID: req.TemplateID,
			Copies:     copies,
			CreatedAt:  result.CreatedAt,
		}
		if err := c.sink.Append(context.WithoutCancel(ctx), entry); err != nil {
			return result, err
		}
	}
	return result, nil
}

// dispatchRecord delivers one record's label, copies times. The first
// non-delivered outcome wins; no partial-copy success state is surfaced.
func (c *Coordinator) dispatchRecord(ctx context.Context, rec label.CableRecord, req Request, copies int, today time.Time) printer.Outcome {
	if err := ctx.Err(); err != nil {
		return printer.Outcome{Kind: printer.OutcomeConnectionFailed, Reason: err.Error()}
	}

	fields := label.ResolveFields(rec, req.BaseURL, today)
	zpl := label.Render(req.Template.Body, fields)

	for i := 0; i < copies; i++ {
		if err := ctx.Err(); err != nil {
			return printer.Outcome{Kind: printer.OutcomeConnectionFailed, Reason: err.Error()}
		}
		outcome := c.deliver.Deliver(ctx, zpl, req.Target)
		if !outcome.Delivered() {
			c.log.Warn().
				Int64("record_id", rec.ID).
				Int("copy", i+1).
				Str("outcome", string(outcome.Kind)).
				Str("reason", outcome.Reason).
				Msg("delivery_failed")
			return outcome
		}
	}
	return printer.Outcome{Kind: printer.OutcomeDelivered}
}

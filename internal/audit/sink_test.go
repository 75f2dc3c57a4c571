package audit

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/wiredlabs/labelctl/internal/batch"
	"github.com/wiredlabs/labelctl/internal/printer"
)

func entry(id string) batch.AuditEntry {
	return batch.AuditEntry{
		Result: batch.Result{
			ID: id,
			Outcomes: []batch.RecordOutcome{
				{RecordID: 1, CableID: "CBL-1", Outcome: printer.Outcome{Kind: printer.OutcomeDelivered}},
			},
			Succeeded: 1,
			CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
		},
		PrinterID:  "rack1",
		TemplateID: "tmpl",
		Copies:     1,
		CreatedAt:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemorySinkRecentNewestFirst(t *testing.T) {
	sink := NewMemorySink()
	for _, id := range []string{"a", "b", "c"} {
		if err := sink.Append(context.Background(), entry(id)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	recent := sink.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(recent))
	}
	if recent[0].Result.ID != "c" || recent[1].Result.ID != "b" {
		t.Fatalf("unexpected order: %q %q", recent[0].Result.ID, recent[1].Result.ID)
	}

	all := sink.Recent(0)
	if len(all) != 3 {
		t.Fatalf("expected all entries for n<=0, got %d", len(all))
	}
	if got := sink.Recent(10); len(got) != 3 {
		t.Fatalf("over-asking should cap at length, got %d", len(got))
	}
}

func TestFileSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit", "batches.jsonl")
	sink, err := NewFileSink(path)
	if err != nil {
		t.Fatalf("new file sink: %v", err)
	}

	for _, id := range []string{"a", "b"} {
		if err := sink.Append(context.Background(), entry(id)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
	}

	entries, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Result.ID != "a" || entries[1].Result.ID != "b" {
		t.Fatalf("unexpected order: %q %q", entries[0].Result.ID, entries[1].Result.ID)
	}
	got := entries[1]
	if got.PrinterID != "rack1" || got.TemplateID != "tmpl" || got.Copies != 1 {
		t.Fatalf("metadata lost in round trip: %+v", got)
	}
	if len(got.Result.Outcomes) != 1 || !got.Result.Outcomes[0].Outcome.Delivered() {
		t.Fatalf("outcomes lost in round trip: %+v", got.Result)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

type failingSink struct{ err error }

func (s failingSink) Append(context.Context, batch.AuditEntry) error { return s.err }

func TestMultiSinkFanOut(t *testing.T) {
	first := NewMemorySink()
	second := NewMemorySink()
	multi := MultiSink{first, second}

	if err := multi.Append(context.Background(), entry("a")); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if len(first.Recent(0)) != 1 || len(second.Recent(0)) != 1 {
		t.Fatal("entry not fanned out to every sink")
	}
}

func TestMultiSinkStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	tail := NewMemorySink()
	multi := MultiSink{failingSink{err: boom}, tail}

	if err := multi.Append(context.Background(), entry("a")); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(tail.Recent(0)) != 0 {
		t.Fatal("sink after failure should not receive the entry")
	}
}

// Package audit persists completed batch results. Entries are append-only
// and never updated.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wiredlabs/labelctl/internal/batch"
)

// MemorySink keeps entries in memory, newest last. It backs tests and the
// recent-history API.
type MemorySink struct {
	mu      sync.RWMutex
	entries []batch.AuditEntry
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append records one completed batch.
func (s *MemorySink) Append(_ context.Context, entry batch.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Recent returns up to n entries, newest first.
func (s *MemorySink) Recent(n int) []batch.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]batch.AuditEntry, 0, n)
	for i := len(s.entries) - 1; i >= len(s.entries)-n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// FileSink appends entries as JSON lines to a single file.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates the parent directory and returns a sink writing to path.
func NewFileSink(path string) (*FileSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("audit dir create failed: %w", err)
	}
	return &FileSink{path: path}, nil
}

// Append writes one entry as a JSON line.
func (s *FileSink) Append(_ context.Context, entry batch.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("audit open failed: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(entry); err != nil {
		return fmt.Errorf("audit write failed: %w", err)
	}
	return nil
}

// ReadFile loads every entry from a JSONL audit file, oldest first.
func ReadFile(path string) ([]batch.AuditEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("audit read failed: %w", err)
	}
	var entries []batch.AuditEntry
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var entry batch.AuditEntry
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("audit parse failed: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MultiSink fans one entry out to several sinks, stopping at the first error.
type MultiSink []batch.AuditSink

// Append writes the entry to each sink in order.
func (m MultiSink) Append(ctx context.Context, entry batch.AuditEntry) error {
	for _, sink := range m {
		if err := sink.Append(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

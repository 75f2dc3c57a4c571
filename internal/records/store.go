// Package records is the boundary to the host system's cable documentation.
// The core consumes read-only snapshots; it never holds live host state.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/wiredlabs/labelctl/internal/label"
)

var ErrNotFound = errors.New("records: not found")

// Store is a read-only accessor over cable records.
type Store interface {
	Get(ctx context.Context, id int64) (label.CableRecord, error)
	List(ctx context.Context) ([]label.CableRecord, error)
}

// MemoryStore holds cable snapshots in memory. It backs tests and file-seeded
// deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[int64]label.CableRecord
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int64]label.CableRecord)}
}

// Put inserts or replaces a record snapshot.
func (s *MemoryStore) Put(rec label.CableRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.ID] = rec
}

// Get returns one record snapshot by id.
func (s *MemoryStore) Get(_ context.Context, id int64) (label.CableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[id]
	if !ok {
		return label.CableRecord{}, fmt.Errorf("%w: cable %d", ErrNotFound, id)
	}
	return rec, nil
}

// List returns all record snapshots ordered by id.
func (s *MemoryStore) List(_ context.Context) ([]label.CableRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]label.CableRecord, 0, len(s.items))
	for _, rec := range s.items {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fileRecord struct {
	ID          int64    `json:"id"`
	Label       string   `json:"label,omitempty"`
	TermADevice string   `json:"term_a_device,omitempty"`
	TermAIface  string   `json:"term_a_interface,omitempty"`
	TermBDevice string   `json:"term_b_device,omitempty"`
	TermBIface  string   `json:"term_b_interface,omitempty"`
	Length      *float64 `json:"length,omitempty"`
	LengthUnit  string   `json:"length_unit,omitempty"`
	Color       string   `json:"color,omitempty"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
}

// LoadFile seeds a memory store from a JSON snapshot exported by the host.
func LoadFile(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("records load failed (%s): %w", path, err)
	}
	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("records parse failed (%s): %w", path, err)
	}
	store := NewMemoryStore()
	for _, fr := range raw {
		rec := label.CableRecord{
			ID:          fr.ID,
			Label:       fr.Label,
			Length:      fr.Length,
			LengthUnit:  fr.LengthUnit,
			Color:       fr.Color,
			Type:        fr.Type,
			Description: fr.Description,
		}
		if fr.TermADevice != "" || fr.TermAIface != "" {
			rec.TermA = &label.Termination{Device: fr.TermADevice, Interface: fr.TermAIface}
		}
		if fr.TermBDevice != "" || fr.TermBIface != "" {
			rec.TermB = &label.Termination{Device: fr.TermBDevice, Interface: fr.TermBIface}
		}
		store.Put(rec)
	}
	return store, nil
}

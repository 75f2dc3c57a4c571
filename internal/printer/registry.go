package printer

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrPrinterExists   = errors.New("printer already exists")
	ErrPrinterNotFound = errors.New("printer not found")
	ErrInvalidPrinter  = errors.New("invalid printer")
)

// Info is one configured printer plus its observed reachability state.
type Info struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Host        string     `json:"host"`
	Port        int        `json:"port"`
	DPI         int        `json:"dpi"`
	Location    string     `json:"location,omitempty"`
	Description string     `json:"description,omitempty"`
	LastChecked *time.Time `json:"last_checked,omitempty"`
	LastOnline  *bool      `json:"last_online,omitempty"`
}

// Target builds a delivery target bound to this printer.
func (i Info) Target(timeout time.Duration) Target {
	return Target{Host: i.Host, Port: i.Port, Timeout: timeout}
}

// Registry stores configured printers by id and tracks probe results.
type Registry struct {
	mu    sync.RWMutex
	items map[string]*Info
}

// NewRegistry creates an empty printer registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Info)}
}

// Register adds a printer.
func (r *Registry) Register(info Info) error {
	if strings.TrimSpace(info.ID) == "" || strings.TrimSpace(info.Host) == "" {
		return fmt.Errorf("%w: id and host are required", ErrInvalidPrinter)
	}
	if info.Port == 0 {
		info.Port = DefaultPort
	}
	if info.Port < 1 || info.Port > 65535 {
		return fmt.Errorf("%w: port out of range %d", ErrInvalidPrinter, info.Port)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[info.ID]; ok {
		return fmt.Errorf("%w: %q", ErrPrinterExists, info.ID)
	}
	r.items[info.ID] = &info
	return nil
}

// Resolve returns a printer snapshot by id.
func (r *Registry) Resolve(id string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.items[id]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// List returns all printers ordered by id.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Info, 0, len(r.items))
	for _, info := range r.items {
		list = append(list, *info)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

// RecordProbe stores the latest reachability observation for a printer.
func (r *Registry) RecordProbe(id string, online bool) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.items[id]
	if !ok {
		return
	}
	info.LastChecked = &now
	info.LastOnline = &online
}

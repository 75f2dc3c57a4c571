package label

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrTemplateExists    = errors.New("template already exists")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrInvalidTemplate   = errors.New("invalid template")
	ErrNoDefaultTemplate = errors.New("no default template for size")
)

// Registry stores label templates by stable identifier. At most one template
// per size class carries the default flag.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Template
}

// NewRegistry creates an empty template registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Template)}
}

// ValidateTemplateEntry checks identity, geometry, and body safety.
func ValidateTemplateEntry(t Template) error {
	id := strings.TrimSpace(t.ID)
	name := strings.TrimSpace(t.Name)
	if id == "" || name == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidTemplate)
	}
	if !isValidID(id) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidTemplate, id)
	}
	if _, ok := SizeDimensions[t.Size]; !ok {
		return fmt.Errorf("%w: unknown size class %q", ErrInvalidTemplate, t.Size)
	}
	if t.WidthMM <= 0 || t.HeightMM <= 0 {
		return fmt.Errorf("%w: dimensions must be positive", ErrInvalidTemplate)
	}
	switch t.DPI {
	case 152, 203, 300, 600:
	default:
		return fmt.Errorf("%w: unsupported dpi %d", ErrInvalidTemplate, t.DPI)
	}
	body := strings.TrimSpace(t.Body)
	if !strings.HasPrefix(body, "^XA") {
		return fmt.Errorf("%w: body must start with ^XA", ErrInvalidTemplate)
	}
	if !strings.HasSuffix(body, "^XZ") {
		return fmt.Errorf("%w: body must end with ^XZ", ErrInvalidTemplate)
	}
	if ok, found := ValidateTemplate(body); !ok {
		return fmt.Errorf("%w: dangerous commands: %s", ErrInvalidTemplate, strings.Join(found, ", "))
	}
	return nil
}

// Register adds a template. A template flagged default displaces any previous
// default within the same size class.
func (r *Registry) Register(t Template) error {
	if err := ValidateTemplateEntry(t); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[t.ID]; ok {
		return fmt.Errorf("%w: %q", ErrTemplateExists, t.ID)
	}
	if t.Default {
		for id, existing := range r.items {
			if existing.Size == t.Size && existing.Default {
				existing.Default = false
				r.items[id] = existing
			}
		}
	}
	r.items[t.ID] = t
	return nil
}

// Resolve returns a template by id.
func (r *Registry) Resolve(id string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	return t, ok
}

// List returns all templates ordered by id.
func (r *Registry) List() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Template, 0, len(r.items))
	for _, t := range r.items {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

// DefaultForSize returns the template flagged default for a size class. It
// never picks an arbitrary template when none is flagged.
func (r *Registry) DefaultForSize(size SizeClass) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.items {
		if t.Size == size && t.Default {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrNoDefaultTemplate, size)
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(id)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}

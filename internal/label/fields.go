package label

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Termination is one resolved cable endpoint. Either field may be empty when
// the cable terminates in something that is not a device interface.
type Termination struct {
	Device    string
	Interface string
}

// CableRecord is a read-only snapshot of one documented cable, copied out of
// the host system. It never holds a live reference into host storage.
type CableRecord struct {
	ID          int64
	Label       string
	TermA       *Termination
	TermB       *Termination
	Length      *float64
	LengthUnit  string
	Color       string
	Type        string
	Description string
}

// CableID returns the user-assigned label, falling back to the numeric id.
func (r CableRecord) CableID() string {
	if r.Label != "" {
		return r.Label
	}
	return fmt.Sprintf("CBL-%d", r.ID)
}

// Placeholders is the documented token vocabulary, in template order.
var Placeholders = []string{
	"cable_id",
	"cable_url",
	"term_a_device",
	"term_a_interface",
	"term_b_device",
	"term_b_interface",
	"length",
	"color",
	"type",
	"description",
	"date",
}

// FieldMapping maps every declared placeholder to a resolved value. Every
// declared key is always present, possibly empty. Immutable after construction.
type FieldMapping struct {
	values map[string]string
}

// Value returns the resolved value for a placeholder name.
func (m FieldMapping) Value(name string) (string, bool) {
	v, ok := m.values[name]
	return v, ok
}

// ResolveFields derives the complete field mapping for one cable snapshot.
// It is total: missing endpoint data resolves to empty strings, never an error.
// Values are sanitized for ZPL field data during construction.
func ResolveFields(rec CableRecord, baseURL string, today time.Time) FieldMapping {
	values := make(map[string]string, len(Placeholders))
	for _, name := range Placeholders {
		values[name] = ""
	}

	values["cable_id"] = SanitizeField(rec.CableID(), 0)

	if baseURL != "" {
		values["cable_url"] = fmt.Sprintf("%s/dcim/cables/%d/", strings.TrimRight(baseURL, "/"), rec.ID)
	}

	if rec.TermA != nil {
		values["term_a_device"] = SanitizeField(rec.TermA.Device, 0)
		values["term_a_interface"] = SanitizeField(rec.TermA.Interface, 0)
	}
	if rec.TermB != nil {
		values["term_b_device"] = SanitizeField(rec.TermB.Device, 0)
		values["term_b_interface"] = SanitizeField(rec.TermB.Interface, 0)
	}

	if rec.Length != nil && rec.LengthUnit != "" {
		values["length"] = strconv.FormatFloat(*rec.Length, 'f', -1, 64) + rec.LengthUnit
	}

	values["color"] = SanitizeField(rec.Color, 0)
	values["type"] = SanitizeField(rec.Type, 0)
	values["description"] = SanitizeField(rec.Description, 0)
	values["date"] = today.Format("2006-01-02")

	return FieldMapping{values: values}
}

// MappingFromValues builds a mapping for the declared vocabulary from raw
// values. Unknown keys are ignored, missing keys resolve to empty strings.
func MappingFromValues(raw map[string]string) FieldMapping {
	values := make(map[string]string, len(Placeholders))
	for _, name := range Placeholders {
		values[name] = SanitizeField(raw[name], 0)
	}
	return FieldMapping{values: values}
}

package printer

import (
	"errors"
	"testing"
	"time"
)

func TestPrinterRegistryRegisterDefaultsPort(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Info{ID: "rack1", Name: "Rack 1", Host: "10.0.0.10"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	info, ok := r.Resolve("rack1")
	if !ok {
		t.Fatal("printer not found after register")
	}
	if info.Port != DefaultPort {
		t.Fatalf("port: got %d want %d", info.Port, DefaultPort)
	}
}

func TestPrinterRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Info{ID: "", Host: "10.0.0.10"}); !errors.Is(err, ErrInvalidPrinter) {
		t.Fatalf("expected ErrInvalidPrinter for missing id, got %v", err)
	}
	if err := r.Register(Info{ID: "p", Host: ""}); !errors.Is(err, ErrInvalidPrinter) {
		t.Fatalf("expected ErrInvalidPrinter for missing host, got %v", err)
	}
	if err := r.Register(Info{ID: "p", Host: "h", Port: 70000}); !errors.Is(err, ErrInvalidPrinter) {
		t.Fatalf("expected ErrInvalidPrinter for bad port, got %v", err)
	}
}

func TestPrinterRegistryRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Info{ID: "p", Host: "h"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register(Info{ID: "p", Host: "other"}); !errors.Is(err, ErrPrinterExists) {
		t.Fatalf("expected ErrPrinterExists, got %v", err)
	}
}

func TestPrinterRegistryListIsSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		if err := r.Register(Info{ID: id, Host: "h"}); err != nil {
			t.Fatalf("register %q failed: %v", id, err)
		}
	}
	list := r.List()
	if len(list) != 3 || list[0].ID != "a" || list[1].ID != "b" || list[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestPrinterRegistryRecordProbe(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Info{ID: "p", Host: "h"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	r.RecordProbe("p", true)
	info, _ := r.Resolve("p")
	if info.LastChecked == nil || info.LastOnline == nil {
		t.Fatal("probe result not recorded")
	}
	if !*info.LastOnline {
		t.Fatal("expected online=true")
	}

	r.RecordProbe("missing", false)
}

func TestInfoTarget(t *testing.T) {
	info := Info{ID: "p", Host: "10.0.0.10", Port: 6101}
	target := info.Target(3 * time.Second)
	if target.Host != "10.0.0.10" || target.Port != 6101 || target.Timeout != 3*time.Second {
		t.Fatalf("unexpected target: %+v", target)
	}
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/wiredlabs/labelctl/internal/printer"
)

type printerEntry struct {
	ID   string `toml:"id"`
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type fileConfig struct {
	TimeoutMS int64          `toml:"timeout_ms"`
	Printers  []printerEntry `toml:"printers"`
}

// loadTarget resolves a named printer from a printctl config file.
func loadTarget(path, name string) (printer.Target, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return printer.Target{}, fmt.Errorf("load printctl config: %w", err)
	}

	timeout := printer.DefaultTimeout
	if meta.IsDefined("timeout_ms") && raw.TimeoutMS > 0 {
		timeout = time.Duration(raw.TimeoutMS) * time.Millisecond
	}

	for _, entry := range raw.Printers {
		if strings.TrimSpace(entry.ID) != name {
			continue
		}
		if strings.TrimSpace(entry.Host) == "" {
			return printer.Target{}, fmt.Errorf("printer %q missing host", name)
		}
		return printer.Target{
			Host:    entry.Host,
			Port:    entry.Port,
			Timeout: timeout,
		}, nil
	}
	return printer.Target{}, fmt.Errorf("printer %q not found in %s", name, path)
}

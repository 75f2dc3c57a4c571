package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/wiredlabs/labelctl/internal/audit"
	"github.com/wiredlabs/labelctl/internal/batch"
	"github.com/wiredlabs/labelctl/internal/config"
	"github.com/wiredlabs/labelctl/internal/label"
	"github.com/wiredlabs/labelctl/internal/logging"
	"github.com/wiredlabs/labelctl/internal/observability"
	"github.com/wiredlabs/labelctl/internal/preview"
	"github.com/wiredlabs/labelctl/internal/printer"
	"github.com/wiredlabs/labelctl/internal/records"
	"github.com/wiredlabs/labelctl/internal/server"
)

func main() {
	configPath := flag.String("config", "labeld.toml", "path to config file")
	flag.Parse()

	logging.ConfigureRuntime()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "labeld: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := observability.InitLogger(cfg.Name)

	templates := label.NewBuiltinRegistry()
	printers := printer.NewRegistry()
	for _, p := range cfg.Printers {
		info := printer.Info{
			ID:          p.ID,
			Name:        p.Name,
			Host:        p.Host,
			Port:        p.Port,
			DPI:         p.DPI,
			Location:    p.Location,
			Description: p.Description,
		}
		if err := printers.Register(info); err != nil {
			return err
		}
	}

	store := records.NewMemoryStore()
	if cfg.RecordsPath != "" {
		store, err = records.LoadFile(cfg.RecordsPath)
		if err != nil {
			return err
		}
	}

	backend, err := preview.FromConfig(cfg.Preview)
	if err != nil {
		return err
	}

	history := audit.NewMemorySink()
	var sink batch.AuditSink = history
	if cfg.AuditPath != "" {
		fileSink, err := audit.NewFileSink(cfg.AuditPath)
		if err != nil {
			return err
		}
		sink = audit.MultiSink{history, fileSink}
	}

	svc := server.New(server.Options{
		Config:    cfg,
		Records:   store,
		Templates: templates,
		Printers:  printers,
		Preview:   backend,
		Sink:      sink,
		History:   history,
		Logger:    logger,
	})

	logger.Info().
		Str("addr", cfg.Addr).
		Str("preview_backend", cfg.Preview.Backend).
		Int("printers", len(cfg.Printers)).
		Msg("labeld_started")
	return svc.Run()
}

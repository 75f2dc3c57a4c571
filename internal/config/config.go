package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultPrinterPort = 9100
	DefaultTimeout     = 5 * time.Second

	BackendLabelary   = "labelary"
	BackendBinaryKits = "binarykits"
)

type Config struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`

	// BaseURL is the host system's root URL, used for label link fields.
	BaseURL string `toml:"base_url"`

	// TimeoutMS bounds every printer connect and write.
	TimeoutMS int64 `toml:"timeout_ms"`

	// AuditPath, when set, appends completed batch results as JSON lines.
	AuditPath string `toml:"audit_path"`

	// RecordsPath, when set, seeds the in-memory record store from a JSON
	// snapshot exported by the host system.
	RecordsPath string `toml:"records_path"`

	Preview  PreviewConfig   `toml:"preview"`
	Printers []PrinterConfig `toml:"printers"`
}

type PreviewConfig struct {
	Backend   string `toml:"backend"`
	URL       string `toml:"url"`
	TimeoutMS int64  `toml:"timeout_ms"`
}

type PrinterConfig struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	DPI         int    `toml:"dpi"`
	Location    string `toml:"location"`
	Description string `toml:"description"`
}

func Load(path string) (Config, error) {
	var cfg Config
	if err := loadToml(path, &cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Name == "" {
		cfg.Name = "labeld"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8480"
	}
	if cfg.TimeoutMS <= 0 {
		cfg.TimeoutMS = DefaultTimeout.Milliseconds()
	}
	if cfg.Preview.Backend == "" {
		cfg.Preview.Backend = BackendLabelary
	}
	for i := range cfg.Printers {
		if cfg.Printers[i].Port == 0 {
			cfg.Printers[i].Port = DefaultPrinterPort
		}
		if cfg.Printers[i].DPI == 0 {
			cfg.Printers[i].DPI = 300
		}
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

func (p PreviewConfig) Timeout() time.Duration {
	if p.TimeoutMS <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.TimeoutMS) * time.Millisecond
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("config missing addr")
	}
	switch cfg.Preview.Backend {
	case BackendLabelary, BackendBinaryKits:
	default:
		return fmt.Errorf("preview backend must be %q or %q, got %q",
			BackendLabelary, BackendBinaryKits, cfg.Preview.Backend)
	}
	if cfg.Preview.Backend == BackendBinaryKits && strings.TrimSpace(cfg.Preview.URL) == "" {
		return fmt.Errorf("preview backend %q requires url", BackendBinaryKits)
	}
	for i, p := range cfg.Printers {
		if err := ValidatePrinter(p); err != nil {
			return fmt.Errorf("printer[%d] invalid: %w", i, err)
		}
	}
	return nil
}

func ValidatePrinter(p PrinterConfig) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(p.Host) == "" {
		return fmt.Errorf("host is required")
	}
	if p.Port < 1 || p.Port > 65535 {
		return fmt.Errorf("port out of range: %d", p.Port)
	}
	switch p.DPI {
	case 152, 203, 300, 600:
	default:
		return fmt.Errorf("unsupported dpi: %d", p.DPI)
	}
	return nil
}

// Package preview renders ZPL to raster images through an external rendering
// service. It is best-effort and never sits on the printing path.
package preview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/wiredlabs/labelctl/internal/config"
)

var ErrRender = errors.New("preview: render failed")

// Geometry describes the label area a backend should rasterize.
type Geometry struct {
	WidthMM  float64
	HeightMM float64
	DPI      int
}

// Result is one rendered preview image.
type Result struct {
	Image       []byte
	ContentType string
}

// Backend renders ZPL into an image. Failures are always surfaced as errors,
// never degraded to a blank image.
type Backend interface {
	Name() string
	Render(ctx context.Context, zpl string, g Geometry) (Result, error)
}

// dpmm maps printer DPI to dots-per-millimeter, the unit both backends speak.
var dpmm = map[int]int{
	152: 6,
	203: 8,
	300: 12,
	600: 24,
}

func dotsPerMM(dpi int) int {
	if v, ok := dpmm[dpi]; ok {
		return v
	}
	return 12
}

// FromConfig selects and constructs the configured backend.
func FromConfig(cfg config.PreviewConfig) (Backend, error) {
	client := &http.Client{Timeout: cfg.Timeout()}
	switch cfg.Backend {
	case config.BackendLabelary:
		return NewLabelary(cfg.URL, client), nil
	case config.BackendBinaryKits:
		return NewBinaryKits(cfg.URL, client), nil
	default:
		return nil, fmt.Errorf("preview: unknown backend %q", cfg.Backend)
	}
}

func mmToInches(mm float64) float64 {
	return math.Round(mm/25.4*100) / 100
}

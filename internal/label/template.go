package label

// SizeClass identifies a TE Raychem SBP label stock size.
type SizeClass string

const (
	SizeSBP050100 SizeClass = "sbp050100"
	SizeSBP100143 SizeClass = "sbp100143"
	SizeSBP100225 SizeClass = "sbp100225"
	SizeSBP100375 SizeClass = "sbp100375"
	SizeSBP200375 SizeClass = "sbp200375"
)

// Dimensions is the printable area and total label height for a size class.
type Dimensions struct {
	WidthMM       float64
	HeightMM      float64
	TotalHeightMM float64
}

var SizeDimensions = map[SizeClass]Dimensions{
	SizeSBP050100: {WidthMM: 8.5, HeightMM: 12.0, TotalHeightMM: 25.4},
	SizeSBP100143: {WidthMM: 12.7, HeightMM: 18.0, TotalHeightMM: 36.5},
	SizeSBP100225: {WidthMM: 19.1, HeightMM: 25.0, TotalHeightMM: 57.2},
	SizeSBP100375: {WidthMM: 25.4, HeightMM: 38.0, TotalHeightMM: 95.3},
	SizeSBP200375: {WidthMM: 25.4, HeightMM: 38.0, TotalHeightMM: 95.3},
}

// Template is one ZPL label layout. Immutable at render time; the registry
// owns mutation.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Size        SizeClass `json:"size"`
	WidthMM     float64   `json:"width_mm"`
	HeightMM    float64   `json:"height_mm"`
	DPI         int       `json:"dpi"`
	Body        string    `json:"body"`
	IncludeQR   bool      `json:"include_qr"`
	Default     bool      `json:"default"`
}

// WidthDots returns the printable width in printer dots.
func (t Template) WidthDots() int {
	return int(t.WidthMM * float64(t.DPI) / 25.4)
}

// HeightDots returns the printable height in printer dots.
func (t Template) HeightDots() int {
	return int(t.HeightMM * float64(t.DPI) / 25.4)
}

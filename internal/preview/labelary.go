package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const labelaryBaseURL = "http://api.labelary.com/v1/printers"

// Labelary renders through the hosted labelary.com API.
type Labelary struct {
	baseURL string
	client  *http.Client
}

// NewLabelary builds a Labelary backend. An empty baseURL uses the hosted API.
func NewLabelary(baseURL string, client *http.Client) *Labelary {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = labelaryBaseURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Labelary{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (l *Labelary) Name() string { return "labelary" }

func (l *Labelary) renderURL(g Geometry) string {
	return fmt.Sprintf("%s/%ddpmm/labels/%gx%g/0/",
		l.baseURL, dotsPerMM(g.DPI), mmToInches(g.WidthMM), mmToInches(g.HeightMM))
}

// Render posts the ZPL and returns the rasterized PNG.
func (l *Labelary) Render(ctx context.Context, zpl string, g Geometry) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.renderURL(g), strings.NewReader(zpl))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "image/png")

	resp, err := l.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: labelary status %d: %s",
			ErrRender, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return Result{Image: body, ContentType: contentType}, nil
}

// ViewerURL builds a labelary.com web viewer link with the ZPL pre-loaded.
func ViewerURL(zpl string, g Geometry) string {
	return fmt.Sprintf("http://labelary.com/viewer.html?dpmm=%ddpmm&w=%g&h=%g&zpl=%s",
		dotsPerMM(g.DPI), mmToInches(g.WidthMM), mmToInches(g.HeightMM), url.QueryEscape(zpl))
}

package preview

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const binaryKitsDefaultURL = "http://localhost:4040"

// BinaryKits renders through a self-hosted BinaryKits.Zpl server.
type BinaryKits struct {
	baseURL string
	client  *http.Client
}

// NewBinaryKits builds a BinaryKits backend against the given server address.
func NewBinaryKits(baseURL string, client *http.Client) *BinaryKits {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = binaryKitsDefaultURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &BinaryKits{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (b *BinaryKits) Name() string { return "binarykits" }

type binaryKitsRequest struct {
	ZPLData          string  `json:"zplData"`
	PrintDensityDpmm int     `json:"printDensityDpmm"`
	LabelWidth       float64 `json:"labelWidth"`
	LabelHeight      float64 `json:"labelHeight"`
}

type binaryKitsResponse struct {
	Labels []struct {
		ImageBase64 string `json:"imageBase64"`
	} `json:"labels"`
}

// Render posts the ZPL as JSON and decodes the first returned label image.
func (b *BinaryKits) Render(ctx context.Context, zpl string, g Geometry) (Result, error) {
	payload, err := json.Marshal(binaryKitsRequest{
		ZPLData:          zpl,
		PrintDensityDpmm: dotsPerMM(g.DPI),
		LabelWidth:       g.WidthMM,
		LabelHeight:      g.HeightMM,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		b.baseURL+"/api/v1/viewer", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: binarykits status %d: %s",
			ErrRender, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded binaryKitsResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return Result{}, fmt.Errorf("%w: binarykits response parse: %v", ErrRender, err)
	}
	if len(decoded.Labels) == 0 || decoded.Labels[0].ImageBase64 == "" {
		return Result{}, fmt.Errorf("%w: binarykits returned no image data", ErrRender)
	}
	image, err := base64.StdEncoding.DecodeString(decoded.Labels[0].ImageBase64)
	if err != nil {
		return Result{}, fmt.Errorf("%w: binarykits image decode: %v", ErrRender, err)
	}
	return Result{Image: image, ContentType: "image/png"}, nil
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wiredlabs/labelctl/internal/audit"
	"github.com/wiredlabs/labelctl/internal/config"
	"github.com/wiredlabs/labelctl/internal/label"
	"github.com/wiredlabs/labelctl/internal/preview"
	"github.com/wiredlabs/labelctl/internal/printer"
	"github.com/wiredlabs/labelctl/internal/records"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubBackend is a canned preview backend.
type stubBackend struct {
	result preview.Result
	err    error
}

func (b stubBackend) Name() string { return "stub" }

func (b stubBackend) Render(ctx context.Context, zpl string, g preview.Geometry) (preview.Result, error) {
	return b.result, b.err
}

// closedPort returns a port that was just released, so connections to it fail.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	_ = ln.Close()
	return port
}

type testEnv struct {
	svc  *Service
	sink *audit.MemorySink
}

func newTestEnv(t *testing.T, backend preview.Backend) *testEnv {
	t.Helper()

	store := records.NewMemoryStore()
	store.Put(label.CableRecord{
		ID:    42,
		Label: "CBL-42",
		TermA: &label.Termination{Device: "deviceA", Interface: "eth0"},
		TermB: &label.Termination{Device: "deviceB", Interface: "eth1"},
	})
	store.Put(label.CableRecord{ID: 7})

	templates := label.NewRegistry()
	if err := templates.Register(label.Template{
		ID:       "tmpl",
		Name:     "Test",
		Size:     label.SizeSBP100375,
		WidthMM:  25.4,
		HeightMM: 38.0,
		DPI:      300,
		Body:     "^XA^FD{cable_id}^FS^XZ",
	}); err != nil {
		t.Fatalf("register template: %v", err)
	}

	printers := printer.NewRegistry()
	if err := printers.Register(printer.Info{
		ID:   "rack1",
		Name: "Rack 1",
		Host: "127.0.0.1",
		Port: closedPort(t),
		DPI:  300,
	}); err != nil {
		t.Fatalf("register printer: %v", err)
	}

	sink := audit.NewMemorySink()
	svc := New(Options{
		Config: config.Config{
			Name:      "labeld-test",
			Addr:      ":0",
			BaseURL:   "https://netbox.local",
			TimeoutMS: 1000,
		},
		Records:   store,
		Templates: templates,
		Printers:  printers,
		Preview:   backend,
		Sink:      sink,
		History:   sink,
		Logger:    zerolog.Nop(),
	})
	return &testEnv{svc: svc, sink: sink}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.svc.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthRoute(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" || body["service"] != "labeld-test" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestGenerateLabels(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/labels/generate", map[string]any{
		"record_ids":  []int64{42, 7},
		"template_id": "tmpl",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Labels []struct {
			RecordID int64  `json:"record_id"`
			CableID  string `json:"cable_id"`
			ZPL      string `json:"zpl"`
		} `json:"labels"`
	}
	decode(t, w, &body)
	if len(body.Labels) != 2 {
		t.Fatalf("expected 2 labels, got %d", len(body.Labels))
	}
	if body.Labels[0].CableID != "CBL-42" || body.Labels[0].ZPL != "^XA^FDCBL-42^FS^XZ" {
		t.Fatalf("unexpected first label: %+v", body.Labels[0])
	}
	if body.Labels[1].CableID != "CBL-7" {
		t.Fatalf("unexpected second label: %+v", body.Labels[1])
	}
}

func TestGenerateWithQuantity(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/labels/generate", map[string]any{
		"record_ids":  []int64{42},
		"template_id": "tmpl",
		"quantity":    3,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "^PQ3,0,1,Y") {
		t.Fatalf("quantity directive missing: %s", w.Body.String())
	}
}

func TestGenerateUnknownTemplate(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/labels/generate", map[string]any{
		"record_ids":  []int64{42},
		"template_id": "nope",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerateUnknownRecord(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/labels/generate", map[string]any{
		"record_ids":  []int64{42, 999},
		"template_id": "tmpl",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestGenerateRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/labels/generate", map[string]any{
		"record_ids": []int64{42},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestPrintToOfflinePrinter(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/labels/print", map[string]any{
		"record_ids":  []int64{42, 7},
		"printer_id":  "rack1",
		"template_id": "tmpl",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	var result struct {
		ID       string `json:"id"`
		Outcomes []struct {
			RecordID int64 `json:"record_id"`
			Outcome  struct {
				Kind string `json:"kind"`
			} `json:"outcome"`
		} `json:"outcomes"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	decode(t, w, &result)

	if result.ID == "" {
		t.Fatal("expected a batch id")
	}
	if len(result.Outcomes) != 2 || result.Failed != 2 || result.Succeeded != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	for _, ro := range result.Outcomes {
		if ro.Outcome.Kind != string(printer.OutcomeConnectionFailed) {
			t.Fatalf("expected connection_failed, got %+v", ro)
		}
	}

	entries := env.sink.Recent(0)
	if len(entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(entries))
	}
	if entries[0].PrinterID != "rack1" || entries[0].TemplateID != "tmpl" {
		t.Fatalf("audit metadata wrong: %+v", entries[0])
	}

	jobs := env.do(t, http.MethodGet, "/api/jobs", nil)
	if jobs.Code != http.StatusOK {
		t.Fatalf("jobs status %d", jobs.Code)
	}
	var jobsBody struct {
		Jobs []json.RawMessage `json:"jobs"`
	}
	decode(t, jobs, &jobsBody)
	if len(jobsBody.Jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobsBody.Jobs))
	}
}

func TestPrintUnknownPrinter(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/labels/print", map[string]any{
		"record_ids":  []int64{42},
		"printer_id":  "nope",
		"template_id": "tmpl",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestPreviewSuccess(t *testing.T) {
	env := newTestEnv(t, stubBackend{
		result: preview.Result{Image: []byte("png-bytes"), ContentType: "image/png"},
	})
	w := env.do(t, http.MethodGet, "/api/labels/preview/42?template_id=tmpl", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "png-bytes" {
		t.Fatalf("unexpected image body: %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type: %q", ct)
	}
}

func TestPreviewBackendFailure(t *testing.T) {
	env := newTestEnv(t, stubBackend{err: errors.New("render exploded")})
	w := env.do(t, http.MethodGet, "/api/labels/preview/42?template_id=tmpl", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestPreviewRequiresTemplateID(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodGet, "/api/labels/preview/42", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestPreviewUnknownRecord(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodGet, "/api/labels/preview/999?template_id=tmpl", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateTemplate(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	tmpl := map[string]any{
		"id":        "custom",
		"name":      "Custom",
		"size":      "sbp100375",
		"width_mm":  25.4,
		"height_mm": 38.0,
		"dpi":       300,
		"body":      "^XA^FD{cable_id}^FS^XZ",
	}

	w := env.do(t, http.MethodPost, "/api/templates", tmpl)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/templates", tmpl)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate status %d: %s", w.Code, w.Body.String())
	}

	tmpl["id"] = "unsafe"
	tmpl["body"] = "^XA~DGR:X.GRF,1,1,0^XZ"
	w = env.do(t, http.MethodPost, "/api/templates", tmpl)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unsafe status %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/templates/custom", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status %d: %s", w.Code, w.Body.String())
	}
}

func TestListTemplates(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodGet, "/api/templates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Templates []label.Template `json:"templates"`
	}
	decode(t, w, &body)
	if len(body.Templates) != 1 || body.Templates[0].ID != "tmpl" {
		t.Fatalf("unexpected templates: %+v", body.Templates)
	}
}

func TestProbeOfflinePrinter(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodPost, "/api/printers/rack1/probe", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		ID     string `json:"id"`
		Online bool   `json:"online"`
	}
	decode(t, w, &body)
	if body.ID != "rack1" || body.Online {
		t.Fatalf("unexpected probe result: %+v", body)
	}

	w = env.do(t, http.MethodGet, "/api/printers/rack1", nil)
	var info struct {
		LastOnline  *bool      `json:"last_online"`
		LastChecked *time.Time `json:"last_checked"`
	}
	decode(t, w, &info)
	if info.LastOnline == nil || *info.LastOnline || info.LastChecked == nil {
		t.Fatalf("probe result not recorded: %+v", info)
	}
}

func TestGetPrinterNotFound(t *testing.T) {
	env := newTestEnv(t, stubBackend{})
	w := env.do(t, http.MethodGet, "/api/printers/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
}

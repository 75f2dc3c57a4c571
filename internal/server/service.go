package server

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wiredlabs/labelctl/internal/batch"
	"github.com/wiredlabs/labelctl/internal/config"
	"github.com/wiredlabs/labelctl/internal/label"
	"github.com/wiredlabs/labelctl/internal/observability"
	"github.com/wiredlabs/labelctl/internal/preview"
	"github.com/wiredlabs/labelctl/internal/printer"
	"github.com/wiredlabs/labelctl/internal/records"
)

// History exposes recently completed batches for the jobs route.
type History interface {
	Recent(n int) []batch.AuditEntry
}

// Options wires the service's collaborators.
type Options struct {
	Config    config.Config
	Records   records.Store
	Templates *label.Registry
	Printers  *printer.Registry
	Preview   preview.Backend
	Sink      batch.AuditSink
	History   History
	Logger    zerolog.Logger
}

// Service owns the HTTP surface over the label engine.
type Service struct {
	cfg       config.Config
	records   records.Store
	templates *label.Registry
	printers  *printer.Registry
	preview   preview.Backend
	coord     *batch.Coordinator
	history   History
	client    *printer.Client
	log       zerolog.Logger

	router  *gin.Engine
	started time.Time
}

// New assembles the router and batch coordinator.
func New(opts Options) *Service {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(opts.Logger))
	r.Use(observability.RequestMetricsMiddleware(opts.Config.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(opts.Config.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "X-User"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	client := &printer.Client{}
	s := &Service{
		cfg:       opts.Config,
		records:   opts.Records,
		templates: opts.Templates,
		printers:  opts.Printers,
		preview:   opts.Preview,
		history:   opts.History,
		client:    client,
		log:       opts.Logger,
		router:    r,
		started:   time.Now(),
	}
	s.coord = batch.NewCoordinator(meteredDeliverer{next: client}, opts.Sink, opts.Logger)
	s.registerRoutes()
	return s
}

// Router returns the assembled gin engine.
func (s *Service) Router() *gin.Engine {
	return s.router
}

// Run serves until the listener fails.
func (s *Service) Run() error {
	return s.router.Run(s.cfg.Addr)
}

// meteredDeliverer records delivery metrics around the raw client.
type meteredDeliverer struct {
	next batch.Deliverer
}

func (m meteredDeliverer) Deliver(ctx context.Context, markup string, target printer.Target) printer.Outcome {
	start := time.Now()
	outcome := m.next.Deliver(ctx, markup, target)
	observability.RecordDelivery(target.Addr(), string(outcome.Kind), outcome.BytesSent, time.Since(start))
	return outcome
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}

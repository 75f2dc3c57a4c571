package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wiredlabs/labelctl/internal/batch"
	"github.com/wiredlabs/labelctl/internal/label"
	"github.com/wiredlabs/labelctl/internal/observability"
	"github.com/wiredlabs/labelctl/internal/preview"
	"github.com/wiredlabs/labelctl/internal/printer"
	"github.com/wiredlabs/labelctl/internal/records"
)

func (s *Service) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": s.cfg.Name,
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	api.POST("/labels/generate", s.handleGenerate)
	api.POST("/labels/print", s.handlePrint)
	api.GET("/labels/preview/:record_id", s.handlePreview)

	api.GET("/printers", s.handleListPrinters)
	api.GET("/printers/:id", s.handleGetPrinter)
	api.POST("/printers/:id/probe", s.handleProbePrinter)
	api.GET("/printers/:id/status", s.handlePrinterStatus)

	api.GET("/templates", s.handleListTemplates)
	api.GET("/templates/:id", s.handleGetTemplate)
	api.POST("/templates", s.handleCreateTemplate)

	api.GET("/jobs", s.handleListJobs)
}

type generateRequest struct {
	RecordIDs  []int64 `json:"record_ids" binding:"required"`
	TemplateID string  `json:"template_id" binding:"required"`
	Quantity   int     `json:"quantity"`
}

type generatedLabel struct {
	RecordID int64  `json:"record_id"`
	CableID  string `json:"cable_id"`
	ZPL      string `json:"zpl"`
}

func (s *Service) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tmpl, ok := s.templates.Resolve(req.TemplateID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found: " + req.TemplateID})
		return
	}
	recs, ok := s.resolveRecords(c, req.RecordIDs)
	if !ok {
		return
	}

	today := time.Now()
	labels := make([]generatedLabel, 0, len(recs))
	for _, rec := range recs {
		fields := label.ResolveFields(rec, s.cfg.BaseURL, today)
		zpl := label.Render(tmpl.Body, fields)
		if req.Quantity > 1 {
			zpl = label.ApplyQuantity(zpl, req.Quantity)
		}
		labels = append(labels, generatedLabel{
			RecordID: rec.ID,
			CableID:  rec.CableID(),
			ZPL:      zpl,
		})
	}
	c.JSON(http.StatusOK, gin.H{"labels": labels})
}

type printRequest struct {
	RecordIDs  []int64 `json:"record_ids" binding:"required"`
	PrinterID  string  `json:"printer_id" binding:"required"`
	TemplateID string  `json:"template_id" binding:"required"`
	Copies     int     `json:"copies"`
}

func (s *Service) handlePrint(c *gin.Context) {
	var req printRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tmpl, ok := s.templates.Resolve(req.TemplateID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found: " + req.TemplateID})
		return
	}
	info, ok := s.printers.Resolve(req.PrinterID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "printer not found: " + req.PrinterID})
		return
	}
	recs, ok := s.resolveRecords(c, req.RecordIDs)
	if !ok {
		return
	}

	result, err := s.coord.Dispatch(c.Request.Context(), batch.Request{
		Records:    recs,
		Template:   tmpl,
		Target:     info.Target(s.cfg.Timeout()),
		Copies:     req.Copies,
		BaseURL:    s.cfg.BaseURL,
		User:       c.GetHeader("X-User"),
		PrinterID:  info.ID,
		TemplateID: tmpl.ID,
	})
	if err != nil {
		// Dispatch finished; only the audit write failed.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Service) handlePreview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("record_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}
	templateID := c.Query("template_id")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "template_id is required"})
		return
	}
	tmpl, ok := s.templates.Resolve(templateID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found: " + templateID})
		return
	}
	rec, err := s.records.Get(c.Request.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, records.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	fields := label.ResolveFields(rec, s.cfg.BaseURL, time.Now())
	zpl := label.Render(tmpl.Body, fields)
	result, err := s.preview.Render(c.Request.Context(), zpl, previewGeometry(tmpl))
	if err != nil {
		observability.RecordPreview(s.preview.Name(), false)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	observability.RecordPreview(s.preview.Name(), true)
	c.Data(http.StatusOK, result.ContentType, result.Image)
}

func (s *Service) handleListPrinters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"printers": s.printers.List()})
}

func (s *Service) handleGetPrinter(c *gin.Context) {
	info, ok := s.printers.Resolve(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "printer not found: " + c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Service) handleProbePrinter(c *gin.Context) {
	info, ok := s.printers.Resolve(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "printer not found: " + c.Param("id")})
		return
	}
	online := printer.Probe(info.Target(s.cfg.Timeout()))
	s.printers.RecordProbe(info.ID, online)
	c.JSON(http.StatusOK, gin.H{"id": info.ID, "online": online})
}

func (s *Service) handlePrinterStatus(c *gin.Context) {
	info, ok := s.printers.Resolve(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "printer not found: " + c.Param("id")})
		return
	}
	status, err := s.client.QueryStatus(c.Request.Context(), info.Target(s.cfg.Timeout()))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Service) handleListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"templates": s.templates.List()})
}

func (s *Service) handleGetTemplate(c *gin.Context) {
	tmpl, ok := s.templates.Resolve(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found: " + c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, tmpl)
}

func (s *Service) handleCreateTemplate(c *gin.Context) {
	var tmpl label.Template
	if err := c.ShouldBindJSON(&tmpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.templates.Register(tmpl); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, label.ErrTemplateExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, tmpl)
}

func (s *Service) handleListJobs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if s.history == nil {
		c.JSON(http.StatusOK, gin.H{"jobs": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": s.history.Recent(limit)})
}

func previewGeometry(tmpl label.Template) preview.Geometry {
	return preview.Geometry{
		WidthMM:  tmpl.WidthMM,
		HeightMM: tmpl.HeightMM,
		DPI:      tmpl.DPI,
	}
}

// resolveRecords loads every requested record before any delivery begins.
// A missing record fails the whole call; there is nothing meaningful to
// dispatch for an unknown id.
func (s *Service) resolveRecords(c *gin.Context, ids []int64) ([]label.CableRecord, bool) {
	recs := make([]label.CableRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := s.records.Get(c.Request.Context(), id)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, records.ErrNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return nil, false
		}
		recs = append(recs, rec)
	}
	return recs, true
}

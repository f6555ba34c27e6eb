// Package server exposes the batch pipeline over HTTP for programmatic
// callers that do not go through the CLI.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/nfse-processor/internal/collector"
	"github.com/rezonia/nfse-processor/internal/extractor"
	"github.com/rezonia/nfse-processor/internal/model"
	"github.com/rezonia/nfse-processor/internal/processor"
	"github.com/rezonia/nfse-processor/internal/xmltree"
)

// Config holds server configuration
type Config struct {
	Address      string
	Concurrency  int
	SchemaConfig string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	extractor *extractor.Extractor
	pipeline  *processor.Pipeline
}

// NewServer creates a new API server
func NewServer(config *Config) (*Server, error) {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	ex := extractor.NewDefault()
	if config.SchemaConfig != "" {
		cfg, err := extractor.LoadConfig(config.SchemaConfig)
		if err != nil {
			return nil, err
		}
		ex = extractor.New(cfg)
	}

	pipeline := processor.NewPipeline(
		processor.WithExtractor(ex),
		processor.WithConcurrency(config.Concurrency),
	)

	s := &Server{
		config:    config,
		router:    router,
		extractor: ex,
		pipeline:  pipeline,
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/extract", s.handleExtract)
		v1.POST("/batch", s.handleBatch)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleExtract parses the raw XML body and returns every invoice it
// carries. Extraction failures come back as 422 with the typed reason.
func (s *Server) handleExtract(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	root, err := xmltree.Parse(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err))
		return
	}

	invoices, err := s.extractor.ExtractAll(root)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, ExtractResponse{Invoices: invoices})
}

// handleBatch collects and processes server-local paths. Per-file
// failures are part of the batch payload, not an HTTP error.
func (s *Server) handleBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no entries given"})
		return
	}

	paths, diags := collector.CollectPaths(req.Entries)

	pipeline := s.pipeline
	if req.Concurrency > 0 {
		pipeline = processor.NewPipeline(
			processor.WithExtractor(s.extractor),
			processor.WithConcurrency(req.Concurrency),
		)
	}

	batch := pipeline.ProcessBatch(c.Request.Context(), paths)

	resp := BatchResponse{Batch: batch}
	for _, d := range diags {
		resp.Diagnostics = append(resp.Diagnostics, d.String())
	}
	c.JSON(http.StatusOK, resp)
}

func errorResponse(err error) ErrorResponse {
	var xerr *model.ExtractionError
	if errors.As(err, &xerr) {
		return ErrorResponse{Error: xerr.Error(), Kind: string(xerr.Kind), Field: xerr.Field}
	}
	return ErrorResponse{Error: err.Error()}
}

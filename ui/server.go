// Package ui exposes the HTTP API over gin.
package ui

import (
	"net/http"

	"equipstats/internal"
	"equipstats/internal/config"
	"equipstats/internal/dataset"
	"equipstats/internal/errors"
	"equipstats/internal/history"
	"equipstats/ports"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// Server wires the HTTP routes to the processing and retention services.
type Server struct {
	router    *gin.Engine
	processor *dataset.Processor
	repo      ports.DatasetRepository
	retention *history.Service
	cfg       *config.Config
	db        *sqlx.DB
	logger    *internal.Logger
}

// NewServer creates the API server and registers its routes.
func NewServer(cfg *config.Config, repo ports.DatasetRepository, db *sqlx.DB, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	gin.SetMode(cfg.Server.GinMode)

	s := &Server{
		router:    gin.Default(),
		processor: dataset.NewProcessor(repo, cfg.Retention.MaxDatasets, cfg.Upload.PreviewRows, logger),
		repo:      repo,
		retention: history.NewService(repo, cfg.Retention.MaxDatasets, logger),
		cfg:       cfg,
		db:        db,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	equipment := api.Group("/equipment")
	equipment.POST("/upload", s.handleUpload)
	equipment.POST("/validate", s.handleValidate)
	equipment.GET("/summary", s.handleCombinedSummary)
	equipment.GET("/summary/latest", s.handleLatestSummary)
	equipment.GET("/summary/:id", s.handleSummaryByID)
	equipment.GET("/preview/:id", s.handleDatasetPreview)

	datasets := api.Group("/datasets")
	datasets.GET("", s.handleListDatasets)
	datasets.GET("/:id", s.handleGetDataset)
	datasets.DELETE("/:id", s.handleDeleteDataset)

	reports := api.Group("/reports")
	reports.GET("/pdf/:id", s.handlePDFReport)
	reports.GET("/preview/:id", s.handleReportPreview)
	reports.GET("/available", s.handleAvailableReports)
	reports.POST("/batch", s.handleBatchReports)

	hist := api.Group("/history")
	hist.GET("/status", s.handleHistoryStatus)
	hist.POST("/cleanup", s.handleHistoryCleanup)
	hist.GET("/cleanup-preview", s.handleCleanupPreview)

	api.GET("/health", s.handleHealth)
}

// Run starts the HTTP server on the configured port.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Server.Port
	s.logger.Info("HTTP server listening on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// respondError maps application error codes onto HTTP statuses.
func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound, errors.CodeNoData:
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

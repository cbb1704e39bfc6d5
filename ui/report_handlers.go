package ui

import (
	"fmt"
	"net/http"
	"sync"

	"equipstats/adapters/report"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// handlePDFReport renders one dataset's summary as a downloadable PDF.
func (s *Server) handlePDFReport(c *gin.Context) {
	stored, err := s.processor.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	pdfBytes, err := report.PDF(stored)
	if err != nil {
		s.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("equipment_report_%s.pdf", stored.DatasetID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// handleReportPreview renders the report body as HTML for in-browser review.
func (s *Server) handleReportPreview(c *gin.Context) {
	stored, err := s.processor.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(stored))
}

// handleAvailableReports lists the datasets a report can be generated for.
func (s *Server) handleAvailableReports(c *gin.Context) {
	summaries, err := s.repo.ListSummaries(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	available := make([]gin.H, 0, len(summaries))
	for _, stored := range summaries {
		available = append(available, gin.H{
			"dataset_id":    stored.DatasetID,
			"dataset_name":  stored.DatasetName,
			"total_records": stored.Summary.TotalRecords,
			"updated_at":    stored.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"reports": available, "count": len(available)})
}

type batchRequest struct {
	DatasetIDs []string `json:"dataset_ids" binding:"required,min=1"`
}

type batchItem struct {
	DatasetID string `json:"dataset_id"`
	FileName  string `json:"file_name,omitempty"`
	SizeBytes int    `json:"size_bytes,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleBatchReports generates PDF reports for several datasets
// concurrently. Per-dataset failures are reported inline rather than
// failing the whole batch.
func (s *Server) handleBatchReports(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dataset_ids is required: " + err.Error()})
		return
	}

	results := make([]batchItem, len(req.DatasetIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(4)
	for i, id := range req.DatasetIDs {
		g.Go(func() error {
			item := batchItem{DatasetID: id}
			if stored, err := s.processor.Summary(ctx, id); err != nil {
				item.Error = err.Error()
			} else if pdfBytes, err := report.PDF(stored); err != nil {
				item.Error = err.Error()
			} else {
				item.FileName = fmt.Sprintf("equipment_report_%s.pdf", stored.DatasetID)
				item.SizeBytes = len(pdfBytes)
			}
			mu.Lock()
			results[i] = item
			mu.Unlock()
			return nil
		})
	}
	// Goroutines report failures per item, so Wait only observes ctx errors.
	if err := g.Wait(); err != nil {
		s.respondError(c, err)
		return
	}

	generated := 0
	for _, item := range results {
		if item.Error == "" {
			generated++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"results":   results,
		"requested": len(req.DatasetIDs),
		"generated": generated,
	})
}

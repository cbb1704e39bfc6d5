package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleCombinedSummary aggregates every stored summary into one record.
func (s *Server) handleCombinedSummary(c *gin.Context) {
	combined, err := s.processor.CombinedSummary(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, combined)
}

// handleLatestSummary returns the statistics record of the most recent
// upload without requiring its ID.
func (s *Server) handleLatestSummary(c *gin.Context) {
	stored, err := s.processor.LatestSummary(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// handleSummaryByID returns one dataset's stored statistics record.
func (s *Server) handleSummaryByID(c *gin.Context) {
	stored, err := s.processor.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// handleDatasetPreview returns dataset metadata with its column profiles and
// headline averages.
func (s *Server) handleDatasetPreview(c *gin.Context) {
	preview, err := s.processor.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

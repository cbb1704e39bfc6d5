package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleHistoryStatus reports store occupancy against the retention cap.
func (s *Server) handleHistoryStatus(c *gin.Context) {
	status, err := s.retention.Status(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// handleHistoryCleanup prunes datasets beyond the retention cap now.
func (s *Server) handleHistoryCleanup(c *gin.Context) {
	result, err := s.retention.Cleanup(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// handleCleanupPreview lists what a cleanup would remove without removing it.
func (s *Server) handleCleanupPreview(c *gin.Context) {
	preview, err := s.retention.Preview(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

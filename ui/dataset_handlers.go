package ui

import (
	"net/http"
	"strconv"

	"equipstats/domain/core"
	"equipstats/internal/errors"

	"github.com/gin-gonic/gin"
)

const defaultListLimit = 50

// handleListDatasets lists stored datasets, newest first.
func (s *Server) handleListDatasets(c *gin.Context) {
	limit := queryInt(c, "limit", defaultListLimit)
	offset := queryInt(c, "offset", 0)

	datasets, err := s.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		s.respondError(c, err)
		return
	}
	total, err := s.repo.Count(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"datasets": datasets,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (s *Server) handleGetDataset(c *gin.Context) {
	id, err := parseDatasetID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	ds, err := s.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (s *Server) handleDeleteDataset(c *gin.Context) {
	id, err := parseDatasetID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.repo.Delete(c.Request.Context(), id); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id.String()})
}

func parseDatasetID(raw string) (core.ID, error) {
	id, err := core.ParseID(raw)
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	return id, nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

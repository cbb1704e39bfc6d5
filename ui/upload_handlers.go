package ui

import (
	"net/http"

	"equipstats/internal/ingest"

	"github.com/gin-gonic/gin"
)

// handleUpload accepts a multipart CSV or Excel file, runs the full pipeline
// and persists the outcome. A schema-invalid file gets a 400 carrying the
// validation report so the client can see which columns were missing.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided: " + err.Error()})
		return
	}

	if fileHeader.Size > s.cfg.Upload.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     "file exceeds the upload size limit",
			"max_bytes": s.cfg.Upload.MaxFileSize,
		})
		return
	}
	if ingest.FileType(fileHeader.Filename) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type: only .csv, .xlsx and .xls are accepted"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	result, err := s.processor.Process(
		c.Request.Context(),
		fileHeader.Filename,
		fileHeader.Size,
		file,
		c.PostForm("name"),
		c.PostForm("description"),
	)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if result.Dataset == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "file failed validation",
			"validation": result.Validation,
		})
		return
	}

	status, err := s.retention.Status(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"dataset":    result.Dataset,
		"summary":    result.Summary,
		"validation": result.Validation,
		"retention":  status,
	})
}

// handleValidate runs validation and cleaning without persisting anything.
// The response is 200 whether or not the file passes; is_valid tells.
func (s *Server) handleValidate(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided: " + err.Error()})
		return
	}
	if fileHeader.Size > s.cfg.Upload.MaxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     "file exceeds the upload size limit",
			"max_bytes": s.cfg.Upload.MaxFileSize,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	result, err := s.processor.Validate(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

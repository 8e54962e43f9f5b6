package httpapi

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/ytget/ytdlp-server/internal/model"
	"github.com/ytget/ytdlp-server/internal/orchestrator"
)

// downloadBody is the wire shape of a download submission
type downloadBody struct {
	URL              string            `json:"url"`
	Format           string            `json:"format"`
	IncludeSubtitles bool              `json:"include_subtitles"`
	AdvancedOptions  map[string]string `json:"advanced_options"`
	UserID           string            `json:"user_id"`
}

func (s *Server) startDownload(c *gin.Context) {
	var body downloadBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}

	if body.URL == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "URL is required"})
		return
	}
	if body.Format == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Format is required"})
		return
	}

	req := model.NewDownloadRequest(body.URL, model.DownloadFormat(body.Format))
	req.IncludeSubtitles = body.IncludeSubtitles
	req.AdvancedOptions = body.AdvancedOptions
	if body.UserID != "" {
		req.UserID = body.UserID
	}

	job, err := s.orch.Submit(req)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrTooManyJobs):
			c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Too many active downloads, try again later"})
		case errors.Is(err, orchestrator.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		}
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id":  job.ID,
		"status":  job.Status,
		"message": "Download started",
	})
}

func (s *Server) jobStatus(c *gin.Context) {
	job, exists := s.orch.Status(c.Param("job_id"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":        job.ID,
		"status":        job.Status,
		"progress":      job.Progress,
		"file_path":     job.FilePath,
		"file_size":     job.FileSize,
		"error_message": job.ErrorMessage,
		"started_at":    job.StartedAt,
		"completed_at":  job.CompletedAt,
		"expires_at":    job.ExpiresAt,
	})
}

func (s *Server) downloadFile(c *gin.Context) {
	result := s.orch.Artifact(c.Param("job_id"))

	switch result.Outcome {
	case orchestrator.ArtifactFound:
		c.FileAttachment(result.FilePath, filepath.Base(result.FilePath))
	case orchestrator.ArtifactNotReady:
		c.JSON(http.StatusNotFound, gin.H{"detail": "File not ready for download"})
	case orchestrator.ArtifactGone:
		c.JSON(http.StatusGone, gin.H{"detail": "File has expired and been deleted"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
	}
}

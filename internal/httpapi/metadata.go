package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ytget/ytdlp-server/internal/orchestrator"
)

type metadataBody struct {
	URL string `json:"url"`
}

// videoMetadata handles the synchronous metadata extraction path
func (s *Server) videoMetadata(c *gin.Context) {
	var body metadataBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
		return
	}
	if body.URL == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "URL is required"})
		return
	}

	meta, err := s.orch.ExtractMetadata(c.Request.Context(), body.URL)
	if err != nil {
		if errors.Is(err, orchestrator.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		s.log.Error("metadata extraction failed", "url", body.URL, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, meta)
}

package httpapi

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// streamProgress frames the orchestrator's progress subscription as
// Server-Sent Events: one event per observed {status, progress} change,
// ending when the job reaches a terminal status or the client goes away.
func (s *Server) streamProgress(c *gin.Context) {
	events, exists := s.orch.Subscribe(c.Request.Context(), c.Param("job_id"))
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Job not found"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent("message", event)
		return true
	})
}

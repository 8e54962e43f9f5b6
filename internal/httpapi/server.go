// Package httpapi exposes the download server over HTTP. It owns request
// decoding, response framing (including the SSE progress stream) and the
// CORS policy; all job semantics live behind the orchestrator.
package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ytget/ytdlp-server/internal/orchestrator"
	"github.com/ytget/ytdlp-server/internal/sweeper"
)

// ServiceName and version reported by the info endpoints
const (
	ServiceName    = "ytdlp-server"
	ServiceVersion = "1.0.0"
)

// Server wires the HTTP routes to the orchestrator and sweeper
type Server struct {
	orch    *orchestrator.Orchestrator
	sweeper *sweeper.Sweeper
	log     *slog.Logger
	origins []string
}

// New creates the HTTP server facade. allowedOrigins is a comma-separated
// origin allow-list for CORS.
func New(orch *orchestrator.Orchestrator, sw *sweeper.Sweeper, allowedOrigins string, log *slog.Logger) *Server {
	var origins []string
	for _, origin := range strings.Split(allowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return &Server{orch: orch, sweeper: sw, log: log, origins: origins}
}

// Router builds the gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/", s.root)
	router.GET("/health", s.health)

	api := router.Group("/api")
	{
		api.POST("/download", s.startDownload)
		api.GET("/download/:job_id", s.downloadFile)
		api.GET("/status/:job_id", s.jobStatus)
		api.GET("/progress/:job_id", s.streamProgress)
		api.POST("/metadata", s.videoMetadata)
		api.POST("/cleanup", s.forceCleanup)
	}

	return router
}

func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": ServiceName,
		"version": ServiceVersion,
		"status":  "running",
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) forceCleanup(c *gin.Context) {
	stats := s.sweeper.ForceCleanup()
	c.JSON(http.StatusOK, stats)
}

package ui

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gobias/app"
)

//go:embed templates/*
var embeddedFiles embed.FS

// Server represents the web server for the bias calculator UI
type Server struct {
	router    *gin.Engine
	service   *app.BiasService
	templates *template.Template
}

// Config holds server configuration
type Config struct {
	Port    string
	GinMode string
}

// NewServer creates a new web server instance
func NewServer(service *app.BiasService, cfg Config) (*Server, error) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.Default(),
		service:   service,
		templates: templates,
	}
	s.router.SetHTMLTemplate(templates)
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/", s.handleForm)
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/bias", s.handleComputeAPI)
		api.GET("/bias/chart", s.handleChartAPI)
	}
}

// Run starts the HTTP server on the configured port
func (s *Server) Run(port string) error {
	log.Printf("[UI] Listening on :%s", port)
	return s.router.Run(":" + port)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

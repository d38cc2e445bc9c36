// Package server exposes the analysis pipeline over HTTP so any
// frontend can request reports without shelling out to the CLI.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ppiankov/credence/internal/model"
)

// Server wraps the gin engine and its listen address.
type Server struct {
	engine *gin.Engine
	addr   string
}

// New builds the HTTP server around an analyzer.
func New(cfg *model.Config, analyzer Analyzer) *Server {
	engine := gin.Default()
	engine.Use(corsMiddleware(cfg.Server.AllowedOrigins))

	h := NewAnalyzeHandler(analyzer)

	api := engine.Group("/api")
	api.POST("/analyze", h.Analyze)
	api.GET("/health", h.Health)

	return &Server{
		engine: engine,
		addr:   cfg.Server.Addr,
	}
}

// Run blocks serving requests until the listener fails.
func (s *Server) Run() error {
	return s.engine.Run(s.addr)
}

// corsMiddleware builds the CORS policy. A single "*" origin means
// allow everything; gin-contrib rejects it inside AllowOrigins.
func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}

	if len(origins) == 1 && origins[0] == "*" {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}

	return cors.New(config)
}

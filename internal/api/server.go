package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/romangod6/route-sitemap/internal/storage"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(port int, gen Generator, store storage.Store) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	handler := NewHandler(gen, store)

	router.GET("/sitemap.xml", handler.ServeSitemap)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		api.GET("/routes", handler.ListRoutes)
		api.POST("/generate", handler.Generate)

		runs := api.Group("/runs")
		{
			runs.GET("", handler.ListRuns)
			runs.GET("/latest", handler.LatestRun)
			runs.GET("/:id", handler.GetRun)
		}
	}

	return &Server{
		router: router,
		port:   port,
	}
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

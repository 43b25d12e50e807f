package api

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/romangod6/route-sitemap/internal/models"
	"github.com/romangod6/route-sitemap/internal/storage"
)

// Generator is the part of generator.Generator the API needs.
type Generator interface {
	Generate(ctx context.Context) (*models.Run, error)
	Preview(ctx context.Context) ([]models.URL, error)
	OutputPath() string
}

type Handler struct {
	gen   Generator
	store storage.Store
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type PaginationResponse struct {
	Data  interface{} `json:"data"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

type RoutesResponse struct {
	Count int          `json:"count"`
	URLs  []models.URL `json:"urls"`
}

// store may be nil; run endpoints then answer 503.
func NewHandler(gen Generator, store storage.Store) *Handler {
	return &Handler{gen: gen, store: store}
}

func (h *Handler) ServeSitemap(c *gin.Context) {
	data, err := os.ReadFile(h.gen.OutputPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Sitemap has not been generated yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to read sitemap"})
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (h *Handler) ListRoutes(c *gin.Context) {
	urls, err := h.gen.Preview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to discover routes"})
		return
	}

	c.JSON(http.StatusOK, RoutesResponse{Count: len(urls), URLs: urls})
}

func (h *Handler) Generate(c *gin.Context) {
	// A client hanging up must not abort a write already under way.
	run, err := h.gen.Generate(context.WithoutCancel(c.Request.Context()))
	if err != nil {
		c.JSON(http.StatusInternalServerError, run)
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) ListRuns(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	page, limit := getPaginationParams(c)
	offset := (page - 1) * limit

	runs, err := h.store.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch runs"})
		return
	}

	if runs == nil {
		runs = []*models.Run{}
	}

	c.JSON(http.StatusOK, PaginationResponse{
		Data:  runs,
		Page:  page,
		Limit: limit,
	})
}

func (h *Handler) GetRun(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid run ID"})
		return
	}

	run, err := h.store.GetRun(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch run"})
		return
	}

	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) LatestRun(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}

	run, err := h.store.LatestRun(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch run"})
		return
	}

	if run == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No runs recorded"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (h *Handler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Run history is not configured"})
		return false
	}
	return true
}

// Utility functions
func getPaginationParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	return page, limit
}

// Package api serves the production catalog over a read-only HTTP API.
//
// The store is re-read on every request so a concurrent sync or manual add
// run from the CLI shows up without restarting the server.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/ctx-theatre/internal/filter"
	"github.com/pfrederiksen/ctx-theatre/internal/logger"
	"github.com/pfrederiksen/ctx-theatre/internal/production"
)

// CatalogSource loads the current catalog. *storage.Storage satisfies it.
type CatalogSource interface {
	Load() (production.Catalog, error)
}

// ProductionsResponse wraps a list of productions.
type ProductionsResponse struct {
	Productions []*production.Production `json:"productions"`
	Total       int                      `json:"total"`
}

// Handler holds the API endpoints.
type Handler struct {
	source CatalogSource
	now    func() time.Time
	log    *logger.Logger
}

// NewHandler creates a Handler reading from source.
func NewHandler(source CatalogSource, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Default()
	}
	return &Handler{source: source, now: time.Now, log: log}
}

// NewRouter registers every route on a new gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.GetHealth)
	r.GET("/productions", h.GetProductions)
	r.GET("/productions/future", h.GetFuture)
	r.GET("/productions/search", h.Search)
	r.GET("/productions/:slug", h.GetProduction)
	return r
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GetProductions(c *gin.Context) {
	catalog, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, filter.All(catalog))
}

// GetFuture lists productions still running or upcoming today.
func (h *Handler) GetFuture(c *gin.Context) {
	catalog, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, filter.Future(catalog, h.now()))
}

// Search matches titles against the q query parameter.
func (h *Handler) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("q"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	catalog, ok := h.load(c)
	if !ok {
		return
	}
	respond(c, filter.Search(catalog, keyword))
}

func (h *Handler) GetProduction(c *gin.Context) {
	catalog, ok := h.load(c)
	if !ok {
		return
	}

	p, found := catalog.Get(c.Param("slug"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "production not found"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) load(c *gin.Context) (production.Catalog, bool) {
	catalog, err := h.source.Load()
	if err != nil {
		h.log.Error("error loading store", logger.Fields{"path": c.Request.URL.Path}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return nil, false
	}
	return catalog, true
}

func respond(c *gin.Context, productions []*production.Production) {
	if productions == nil {
		productions = []*production.Production{}
	}
	c.JSON(http.StatusOK, ProductionsResponse{Productions: productions, Total: len(productions)})
}

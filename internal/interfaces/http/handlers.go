package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/invoice-dashboard/internal/application/port"
	"github.com/garyjia/invoice-dashboard/internal/domain/entity"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services     Services
	viewCache    port.ViewCache
	secureCookie bool
	logger       Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, viewCache port.ViewCache, secureCookie bool, logger Logger) *Handlers {
	return &Handlers{
		services:     services,
		viewCache:    viewCache,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListInvoicesRequest represents query parameters for the invoice listing
type ListInvoicesRequest struct {
	Query string `form:"query"`
	Page  int    `form:"page"`
}

// SearchRequest represents a free-text search query
type SearchRequest struct {
	Query string `form:"query"`
}

// Cache headers set on the invoice listing
const (
	cacheHeader = "X-Cache"
	cacheHit    = "HIT"
	cacheMiss   = "MISS"
)

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// Overview handles GET /dashboard
func (h *Handlers) Overview(c *gin.Context) {
	overview, err := h.services.Dashboard.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to load dashboard",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    overview,
	})
}

// ListCustomers handles GET /dashboard/customers
func (h *Handlers) ListCustomers(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	customers, err := h.services.Dashboard.FilteredCustomers(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve customers",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    customers,
	})
}

// ListInvoices handles GET /dashboard/invoices. Responses are cached per
// query and page until an invoice mutation invalidates the listing.
func (h *Handlers) ListInvoices(c *gin.Context) {
	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	// Set defaults
	if req.Page < 1 {
		req.Page = 1
	}
	req.Query = strings.TrimSpace(req.Query)

	ctx := c.Request.Context()
	variant := listingVariant(req)

	body, ok, err := h.viewCache.Get(ctx, entity.InvoicesPath, variant)
	if err != nil {
		h.logger.Error("Failed to read cached listing", "error", err)
	}
	if ok {
		c.Header(cacheHeader, cacheHit)
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
		return
	}

	// Taken before the read so a mutation committed meanwhile discards this view
	version, err := h.viewCache.Version(ctx, entity.InvoicesPath)
	cacheable := err == nil
	if err != nil {
		h.logger.Error("Failed to read listing version", "error", err)
	}

	page, err := h.services.Dashboard.InvoicePage(ctx, req.Query, req.Page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve invoices",
		})
		return
	}

	body, err = json.Marshal(Response{Success: true, Data: page})
	if err != nil {
		h.logger.Error("Failed to encode invoice listing", "error", err)
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve invoices",
		})
		return
	}

	if cacheable {
		if _, err := h.viewCache.Set(ctx, entity.InvoicesPath, variant, version, body); err != nil {
			h.logger.Error("Failed to cache invoice listing", "error", err)
		}
	}

	c.Header(cacheHeader, cacheMiss)
	c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", body)
}

// listingVariant normalizes the listing parameters into a cache variant
func listingVariant(req ListInvoicesRequest) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(req.Page))
	v.Set("query", req.Query)
	return v.Encode()
}

// ExportInvoices handles GET /dashboard/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	export, err := h.services.Dashboard.ExportInvoices(c.Request.Context(), strings.TrimSpace(req.Query))
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to export invoices",
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Body)
}

// NewInvoiceForm handles GET /dashboard/invoices/create
func (h *Handlers) NewInvoiceForm(c *gin.Context) {
	customers, err := h.services.Dashboard.CustomerFields(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve customers",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    gin.H{"customers": customers},
	})
}

// GetInvoice handles GET /dashboard/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	view, err := h.services.Dashboard.InvoiceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve invoice",
		})
		return
	}

	if view == nil {
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "invoice not found",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

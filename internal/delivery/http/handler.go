package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menucompare/backend/internal/domain"
	"github.com/menucompare/backend/internal/logger"
	"github.com/menucompare/backend/internal/usecase"
	"go.uber.org/zap"
)

// Error codes returned to clients alongside the HTTP status
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotSupported   = "NOT_SUPPORTED"
	codeUnreachable    = "UNREACHABLE"
	codeBadUpstream    = "BAD_UPSTREAM"
	codeInternal       = "INTERNAL"
)

// ComparisonUsecase is the comparison pipeline as seen by the handlers
type ComparisonUsecase interface {
	CompareVendor(ctx context.Context, platform domain.Platform, vendorCode string) (*domain.VendorComparison, error)
	Compare(baseRaw, counterpartRaw []byte, basePlatform domain.Platform, mappings domain.ItemMappings) (*domain.ComparisonOutcome, error)
}

// VendorUsecase serves the vendor directory
type VendorUsecase interface {
	Overview(ctx context.Context) (*domain.VendorOverview, error)
	Details(ctx context.Context, platform domain.Platform, vendorCode string) (*usecase.VendorDetails, error)
	IsPaired(ctx context.Context, platform domain.Platform, vendorCode string) (bool, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparisons ComparisonUsecase
	vendors     VendorUsecase
	logger      *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(comparisons ComparisonUsecase, vendors VendorUsecase, log *zap.Logger) *Handler {
	return &Handler{
		comparisons: comparisons,
		vendors:     vendors,
		logger:      logger.OrNop(log),
	}
}

// compareRequest carries two raw catalogs and mappings oriented from base to counterpart
type compareRequest struct {
	BasePlatform       string              `json:"basePlatform" binding:"required"`
	BaseCatalog        json.RawMessage     `json:"baseCatalog" binding:"required"`
	CounterpartCatalog json.RawMessage     `json:"counterpartCatalog" binding:"required"`
	ItemMappings       domain.ItemMappings `json:"itemMappings"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "menucompare-backend",
		"version": "1.0.0",
	})
}

// CompareVendor compares a vendor's menu against its paired vendor on the other platform
func (h *Handler) CompareVendor(c *gin.Context) {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.compareVendor(c, platform, c.Param("vendorCode"))
}

// CompareByURL compares the vendor behind a restaurant page URL
func (h *Handler) CompareByURL(c *gin.Context) {
	platform, vendorCode, err := usecase.ParseVendorURL(c.Query("url"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.compareVendor(c, platform, vendorCode)
}

func (h *Handler) compareVendor(c *gin.Context, platform domain.Platform, vendorCode string) {
	result, err := h.comparisons.CompareVendor(c.Request.Context(), platform, vendorCode)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// CompareCatalogs compares two catalogs supplied in the request body
func (h *Handler) CompareCatalogs(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.Join(domain.ErrInvalidRequest, err))
		return
	}

	platform, err := domain.ParsePlatform(req.BasePlatform)
	if err != nil {
		h.respondError(c, err)
		return
	}

	outcome, err := h.comparisons.Compare(req.BaseCatalog, req.CounterpartCatalog, platform, req.ItemMappings)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    outcome,
	})
}

// VendorOverview lists the registered vendor pairings with registry stats
func (h *Handler) VendorOverview(c *gin.Context) {
	overview, err := h.vendors.Overview(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    overview,
	})
}

// VendorDetails describes one vendor's pairing and its counterpart page
func (h *Handler) VendorDetails(c *gin.Context) {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	details, err := h.vendors.Details(c.Request.Context(), platform, c.Param("vendorCode"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    details,
	})
}

// VendorPaired reports whether a vendor has a registered counterpart. Listing pages use it
// to highlight comparable vendors without running a comparison.
func (h *Handler) VendorPaired(c *gin.Context) {
	platform, err := domain.ParsePlatform(c.Param("platform"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	paired, err := h.vendors.IsPaired(c.Request.Context(), platform, c.Param("vendorCode"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"platform":   platform,
			"vendorCode": c.Param("vendorCode"),
			"paired":     paired,
		},
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)

	body := gin.H{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	}
	var platformErr *domain.PlatformError
	if errors.As(err, &platformErr) {
		body["platform"] = platformErr.Platform
	}

	if status >= http.StatusInternalServerError {
		h.logger.Warn("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.JSON(status, body)
}

// errorStatus maps domain errors onto HTTP status codes and client error codes
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUpstreamCatalog):
		return http.StatusBadGateway, codeBadUpstream
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrInvalidCatalog):
		return http.StatusBadRequest, codeInvalidRequest
	case domain.IsNotSupported(err):
		return http.StatusNotFound, codeNotSupported
	case domain.IsUnreachable(err):
		return http.StatusServiceUnavailable, codeUnreachable
	case errors.Is(err, domain.ErrPairingMalformed):
		return http.StatusBadGateway, codeBadUpstream
	}
	return http.StatusInternalServerError, codeInternal
}

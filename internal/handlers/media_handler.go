package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/fansubkit/metaparse/internal/services"
)

// scanDirectoryRequest is the request body for POST
// /api/v1/settings/media-directories/scan.
type scanDirectoryRequest struct {
	Path string `json:"path" binding:"required"`
}

// MediaHandler handles HTTP requests for media directory configuration.
// It uses services.MediaServiceInterface for business logic, following the
// Handler -> Service architecture (no repository needed as config is from env).
type MediaHandler struct {
	service services.MediaServiceInterface
}

// NewMediaHandler creates a new MediaHandler with the given service.
func NewMediaHandler(service services.MediaServiceInterface) *MediaHandler {
	return &MediaHandler{
		service: service,
	}
}

// GetMediaDirectories handles GET /api/v1/settings/media-directories
// Returns the list of all configured media directories with their status.
func (h *MediaHandler) GetMediaDirectories(c *gin.Context) {
	config := h.service.GetConfig()
	slog.Info("Retrieved media directories",
		"total", config.TotalCount,
		"valid", config.ValidCount,
		"search_only_mode", config.SearchOnlyMode)
	SuccessResponse(c, config)
}

// RefreshMediaDirectories handles POST /api/v1/settings/media-directories/refresh
// Re-validates all configured directories and returns the updated status.
// Useful when directories may have been mounted/unmounted at runtime.
func (h *MediaHandler) RefreshMediaDirectories(c *gin.Context) {
	slog.Info("Refreshing media directory status")
	config := h.service.RefreshDirectoryStatus()
	SuccessResponse(c, config)
}

// ScanDirectory handles POST /api/v1/settings/media-directories/scan
// Lists the video files in a configured, accessible directory and parses
// each one, returning the metadata extracted from its filename.
func (h *MediaHandler) ScanDirectory(c *gin.Context) {
	var req scanDirectoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "VALIDATION_INVALID_FORMAT",
			"Invalid request format",
			"Please provide a valid JSON body with a 'path' field")
		return
	}

	results, err := h.service.ScanAndParseDirectory(c.Request.Context(), req.Path)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "MEDIA_SCAN_FAILED",
			"Failed to scan and parse directory",
			err.Error())
		return
	}

	SuccessResponse(c, results)
}

// RegisterRoutes registers all media directory routes on the given router group.
// Routes are registered under /settings/media-directories.
func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	media := rg.Group("/settings/media-directories")
	{
		media.GET("", h.GetMediaDirectories)
		media.POST("/refresh", h.RefreshMediaDirectories)
		media.POST("/scan", h.ScanDirectory)
	}
}

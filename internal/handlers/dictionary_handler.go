package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/fansubkit/metaparse/internal/services"
)

// DictionaryHandler handles HTTP requests for keyword dictionary
// introspection and on-demand release-group feed refresh.
type DictionaryHandler struct {
	service services.DictionaryServiceInterface
}

// NewDictionaryHandler creates a new DictionaryHandler with the given service.
func NewDictionaryHandler(service services.DictionaryServiceInterface) *DictionaryHandler {
	return &DictionaryHandler{
		service: service,
	}
}

// GetStats handles GET /api/v1/dictionary
// Returns a summary of the keyword dictionary's current contents.
func (h *DictionaryHandler) GetStats(c *gin.Context) {
	SuccessResponse(c, h.service.GetStats())
}

// RefreshReleaseGroups handles POST /api/v1/dictionary/release-groups/refresh
// Triggers an immediate harvest of the configured release-group feed.
func (h *DictionaryHandler) RefreshReleaseGroups(c *gin.Context) {
	result, err := h.service.RefreshReleaseGroups(c.Request.Context())
	if err != nil {
		slog.Error("Failed to refresh release-group feed", "error", err)
		ErrorResponse(c, http.StatusServiceUnavailable, "RELEASE_GROUP_REFRESH_FAILED",
			"Failed to refresh release-group feed",
			"Check that a feed URL is configured and reachable, then try again.")
		return
	}

	SuccessResponse(c, result)
}

// RegisterRoutes registers all dictionary routes on the given router group.
func (h *DictionaryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dictionary := rg.Group("/dictionary")
	{
		dictionary.GET("", h.GetStats)
		dictionary.POST("/release-groups/refresh", h.RefreshReleaseGroups)
	}
}

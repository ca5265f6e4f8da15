package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/catalog"
	"github.com/mbilawisdom/Beer-Me-Up/internal/core"
	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// CatalogHandler serves beer catalog lookups.
type CatalogHandler struct {
	search core.BeerSearch
	logger *zap.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(search core.BeerSearch, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{search: search, logger: logger}
}

// SearchBeers handles GET /api/v1/beers/search?q=<pattern>. A catalog-side
// failure surfaces as 502 carrying the upstream status code.
func (h *CatalogHandler) SearchBeers(c *gin.Context) {
	pattern := c.Query("q")
	if pattern == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Query parameter 'q' is required"})
		return
	}

	beers, err := h.search.Search(c.Request.Context(), pattern)
	if err != nil {
		var statusErr *catalog.StatusError
		if errors.As(err, &statusErr) {
			h.logger.Warn("Beer catalog returned an error status",
				zap.Int("upstreamStatus", statusErr.StatusCode))
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error:   "Beer catalog request failed",
				Details: statusErr.Error(),
			})
			return
		}
		h.logger.Error("Beer catalog search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Beer catalog search failed"})
		return
	}

	if beers == nil {
		beers = []*models.Beer{}
	}
	c.JSON(http.StatusOK, SearchResponse{Beers: beers})
}

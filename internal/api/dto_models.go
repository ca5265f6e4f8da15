package api

import "github.com/mbilawisdom/Beer-Me-Up/internal/models"

// ErrorResponse is a generic structure for returning errors via the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SaveCheckInRequest carries the beer snapshot the client picked from a
// catalog search result. The check-in timestamp is assigned server-side.
type SaveCheckInRequest struct {
	Beer *models.Beer `json:"beer" binding:"required"`
}

// SearchResponse wraps the catalog search results.
type SearchResponse struct {
	Beers []*models.Beer `json:"beers"`
}

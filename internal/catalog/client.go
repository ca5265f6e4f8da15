// Package catalog implements the client for the external beer-database
// search API (a BreweryDB-style endpoint).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// StatusError is returned when the catalog API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("beer catalog request failed with status %d", e.StatusCode)
}

// Client queries the beer catalog's search endpoint. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a catalog client. httpClient may be nil, in which case
// http.DefaultClient is used. apiKey is appended as the "key" query parameter
// when non-empty.
func NewClient(baseURL, apiKey string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		logger:     logger,
	}
}

// searchResponse is the wire shape of the catalog's search endpoint. Data is
// kept raw so that a zero totalResults short-circuits without parsing it at
// all. Numeric fields arrive as JSON strings or numbers depending on the
// record, so the lenient types below absorb both.
type searchResponse struct {
	TotalResults int             `json:"totalResults"`
	Data         json.RawMessage `json:"data"`
}

type catalogBeer struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ABV         string          `json:"abv"`
	Labels      json.RawMessage `json:"labels"`
	Style       *catalogStyle   `json:"style"`
}

type catalogStyle struct {
	ID          json.Number      `json:"id"`
	Name        string           `json:"name"`
	ShortName   string           `json:"shortName"`
	Description string           `json:"description"`
	ABVMin      string           `json:"abvMin"`
	ABVMax      string           `json:"abvMax"`
	Category    *catalogCategory `json:"category"`
}

type catalogCategory struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type catalogLabels struct {
	Icon string `json:"icon"`
}

// Search issues a free-text search against the catalog with a fixed
// type=beer filter and maps each result into a Beer. A totalResults of 0 (or
// an absent field) yields an empty result without further parsing.
func (c *Client) Search(ctx context.Context, pattern string) ([]*models.Beer, error) {
	params := url.Values{}
	params.Set("q", pattern)
	params.Set("type", "beer")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	endpoint := c.baseURL + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode catalog search response: %w", err)
	}

	if body.TotalResults == 0 {
		return []*models.Beer{}, nil
	}

	var entries []catalogBeer
	if err := json.Unmarshal(body.Data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog search results: %w", err)
	}

	beers := make([]*models.Beer, 0, len(entries))
	for _, entry := range entries {
		beers = append(beers, mapBeer(entry))
	}
	c.logger.Debug("Catalog search completed",
		zap.String("pattern", pattern),
		zap.Int("results", len(beers)))
	return beers, nil
}

func mapBeer(entry catalogBeer) *models.Beer {
	beer := &models.Beer{
		ID:          entry.ID,
		Name:        entry.Name,
		Description: entry.Description,
	}

	if icon := iconURL(entry.Labels); icon != "" {
		beer.ThumbnailURL = &icon
	}

	if entry.Style != nil {
		style := &models.BeerStyle{
			ID:          entry.Style.ID.String(),
			Name:        entry.Style.Name,
			ShortName:   entry.Style.ShortName,
			Description: entry.Style.Description,
		}
		if entry.Style.Category != nil {
			category := &models.BeerCategory{
				ID:   entry.Style.Category.ID.String(),
				Name: entry.Style.Category.Name,
			}
			style.Category = category
			beer.Category = category
		}
		beer.Style = style
	}

	beer.ABV = resolveABV(entry)
	return beer
}

// resolveABV applies the catalog's ABV fallback ladder: the beer's own abv
// field, then the mean of the style's abvMin/abvMax, then whichever bound is
// present alone, else unset.
func resolveABV(entry catalogBeer) *float64 {
	if abv, ok := parseABV(entry.ABV); ok {
		return &abv
	}
	if entry.Style == nil {
		return nil
	}

	min, hasMin := parseABV(entry.Style.ABVMin)
	max, hasMax := parseABV(entry.Style.ABVMax)
	switch {
	case hasMin && hasMax:
		mean := (min + max) / 2
		return &mean
	case hasMin:
		return &min
	case hasMax:
		return &max
	}
	return nil
}

func parseABV(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// iconURL pulls labels.icon out of the raw labels blob. Absent or malformed
// labels yield no thumbnail rather than an error.
func iconURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var labels catalogLabels
	if err := json.Unmarshal(raw, &labels); err != nil {
		return ""
	}
	return labels.Icon
}

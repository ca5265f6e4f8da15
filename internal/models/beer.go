package models

// Beer is a snapshot of a catalog beer as seen at check-in time.
// Instances are treated as immutable once constructed; optional fields use
// pointers so that absence is a checked condition rather than a sentinel value.
type Beer struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	ABV          *float64      `json:"abv,omitempty"`          // Alcohol by volume, percent. Nil when the catalog has no value.
	ThumbnailURL *string       `json:"thumbnailUrl,omitempty"` // From the catalog's labels.icon field.
	Style        *BeerStyle    `json:"style,omitempty"`
	Category     *BeerCategory `json:"category,omitempty"`
}

// BeerStyle describes the style a beer belongs to (e.g. "American IPA").
// Category is the style's parent category when the catalog provides one;
// in the persisted shape the category always lives nested under the style.
type BeerStyle struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	ShortName   string        `json:"shortName,omitempty"`
	Description string        `json:"description,omitempty"`
	Category    *BeerCategory `json:"category,omitempty"`
}

// BeerCategory is the coarse grouping above styles (e.g. "North American Origin Ales").
type BeerCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

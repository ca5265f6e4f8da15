package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func stringPtr(s string) *string { return &s }

func fullBeer() *models.Beer {
	category := &models.BeerCategory{ID: "3", Name: "North American Origin Ales"}
	return &models.Beer{
		ID:           "oeGSxs",
		Name:         "Punk IPA",
		Description:  "Post-modern classic.",
		ABV:          floatPtr(5.6),
		ThumbnailURL: stringPtr("https://brewerydb.com/img/punk-icon.png"),
		Style: &models.BeerStyle{
			ID:          "30",
			Name:        "American-Style India Pale Ale",
			ShortName:   "IPA",
			Description: "Hop forward.",
			Category:    category,
		},
		Category: category,
	}
}

func TestBeerDocument_RoundTrip(t *testing.T) {
	original := fullBeer()

	restored := BeerFromDocument(BeerDocument(original))

	assert.Equal(t, original, restored)
}

func TestBeerDocument_RoundTrip_NoStyle(t *testing.T) {
	original := &models.Beer{
		ID:   "aaa",
		Name: "Mystery Brew",
		ABV:  floatPtr(4.2),
	}

	restored := BeerFromDocument(BeerDocument(original))

	assert.Equal(t, original, restored)
}

func TestBeerDocument_RoundTrip_StyleWithoutCategory(t *testing.T) {
	original := &models.Beer{
		ID:   "bbb",
		Name: "Lager",
		Style: &models.BeerStyle{
			ID:   "12",
			Name: "German-Style Pilsener",
		},
	}

	restored := BeerFromDocument(BeerDocument(original))

	assert.Equal(t, original, restored)
	assert.Nil(t, restored.Category)
}

func TestBeerDocument_AbsentFieldsEmitExplicitNils(t *testing.T) {
	doc := BeerDocument(&models.Beer{ID: "ccc", Name: "Plain"})

	// Keys must be present with nil values, not omitted.
	for _, key := range []string{"abv", "thumbnail_url", "style"} {
		value, ok := doc[key]
		require.True(t, ok, "key %q should be present", key)
		assert.Nil(t, value)
	}
}

func TestBeerDocument_AbsentCategoryEmitsExplicitNil(t *testing.T) {
	doc := BeerDocument(&models.Beer{
		ID:    "ddd",
		Name:  "Stout",
		Style: &models.BeerStyle{ID: "42", Name: "Dry Stout"},
	})

	styleDoc, ok := doc["style"].(map[string]interface{})
	require.True(t, ok)
	value, ok := styleDoc["category"]
	require.True(t, ok, "category key should be present inside style")
	assert.Nil(t, value)
}

func TestBeerFromDocument_CategoryOnlyReadFromStyle(t *testing.T) {
	// The persisted shape nests category under style; a stray top-level
	// category map must be ignored.
	doc := map[string]interface{}{
		"id":       "eee",
		"name":     "Odd One",
		"category": map[string]interface{}{"id": "9", "name": "Ignored"},
	}

	beer := BeerFromDocument(doc)

	assert.Nil(t, beer.Category)
	assert.Nil(t, beer.Style)
}

func TestBeerFromDocument_IntegerABV(t *testing.T) {
	// Firestore hands back int64 for whole numbers written as integers.
	doc := map[string]interface{}{"id": "fff", "name": "Strong", "abv": int64(8)}

	beer := BeerFromDocument(doc)

	require.NotNil(t, beer.ABV)
	assert.Equal(t, 8.0, *beer.ABV)
}

func TestCheckInDocument_Fields(t *testing.T) {
	date := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)
	doc := CheckInDocument(&models.CheckIn{Date: date, Beer: fullBeer()})

	assert.Equal(t, date, doc["date"])
	assert.Equal(t, "oeGSxs", doc["beer_id"])
	assert.Equal(t, "30", doc["beer_style_id"])
	assert.Equal(t, "3", doc["beer_category_id"])
	assert.Equal(t, beerSchemaVersion, doc["beer_version"])
	assert.IsType(t, map[string]interface{}{}, doc["beer"])
}

func TestCheckInDocument_NoStyleEmitsNilIDs(t *testing.T) {
	doc := CheckInDocument(&models.CheckIn{
		Date: time.Now(),
		Beer: &models.Beer{ID: "ggg", Name: "Nameless"},
	})

	assert.Nil(t, doc["beer_style_id"])
	assert.Nil(t, doc["beer_category_id"])
}

func TestBeerSummaryDocument_LastCheckIn(t *testing.T) {
	last := time.Date(2024, 6, 2, 18, 0, 0, 0, time.UTC)
	doc := BeerSummaryDocument(fullBeer(), last)

	assert.Equal(t, last, doc["last_checkin"])
	assert.Equal(t, "oeGSxs", doc["beer_id"])
	assert.Equal(t, beerSchemaVersion, doc["beer_version"])
}

func TestCheckInFromDocument_RoundTrip(t *testing.T) {
	date := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)
	original := &models.CheckIn{Date: date, Beer: fullBeer()}

	restored, err := CheckInFromDocument(CheckInDocument(original))

	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestCheckInFromDocument_MissingFields(t *testing.T) {
	_, err := CheckInFromDocument(map[string]interface{}{"beer": map[string]interface{}{}})
	assert.Error(t, err)

	_, err = CheckInFromDocument(map[string]interface{}{"date": time.Now()})
	assert.Error(t, err)
}

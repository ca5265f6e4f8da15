package db

import (
	"fmt"
	"time"

	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// beerSchemaVersion is stored with every persisted beer snapshot so that
// future readers can branch on the snapshot shape. Readers currently record
// the version but do not branch on it; no version-specific migration exists.
const beerSchemaVersion = 1

// BeerDocument flattens a Beer into the persisted key-value shape.
// Absent style/category serialize as explicit nils rather than omitted keys,
// and the category always lives nested inside the style map - the persisted
// shape has no top-level category.
func BeerDocument(beer *models.Beer) map[string]interface{} {
	doc := map[string]interface{}{
		"id":          beer.ID,
		"name":        beer.Name,
		"description": beer.Description,
	}

	if beer.ABV != nil {
		doc["abv"] = *beer.ABV
	} else {
		doc["abv"] = nil
	}
	if beer.ThumbnailURL != nil {
		doc["thumbnail_url"] = *beer.ThumbnailURL
	} else {
		doc["thumbnail_url"] = nil
	}

	if beer.Style == nil {
		doc["style"] = nil
		return doc
	}

	styleDoc := map[string]interface{}{
		"id":          beer.Style.ID,
		"name":        beer.Style.Name,
		"short_name":  beer.Style.ShortName,
		"description": beer.Style.Description,
	}

	category := beer.Style.Category
	if category == nil {
		category = beer.Category
	}
	if category != nil {
		styleDoc["category"] = map[string]interface{}{
			"id":   category.ID,
			"name": category.Name,
		}
	} else {
		styleDoc["category"] = nil
	}

	doc["style"] = styleDoc
	return doc
}

// BeerFromDocument rebuilds a Beer from its persisted shape. A BeerStyle is
// reconstructed only when a style map is present, and a BeerCategory only
// when a category map is nested inside the style map. Unknown or mistyped
// keys are ignored.
func BeerFromDocument(doc map[string]interface{}) *models.Beer {
	beer := &models.Beer{
		ID:          stringField(doc, "id"),
		Name:        stringField(doc, "name"),
		Description: stringField(doc, "description"),
	}

	if abv, ok := floatField(doc, "abv"); ok {
		beer.ABV = &abv
	}
	if thumbnail := stringField(doc, "thumbnail_url"); thumbnail != "" {
		beer.ThumbnailURL = &thumbnail
	}

	styleDoc, ok := doc["style"].(map[string]interface{})
	if !ok {
		return beer
	}

	style := &models.BeerStyle{
		ID:          stringField(styleDoc, "id"),
		Name:        stringField(styleDoc, "name"),
		ShortName:   stringField(styleDoc, "short_name"),
		Description: stringField(styleDoc, "description"),
	}
	if categoryDoc, ok := styleDoc["category"].(map[string]interface{}); ok {
		category := &models.BeerCategory{
			ID:   stringField(categoryDoc, "id"),
			Name: stringField(categoryDoc, "name"),
		}
		style.Category = category
		beer.Category = category
	}
	beer.Style = style

	return beer
}

// CheckInDocument builds the history-log entry for a check-in: the timestamp,
// the full beer snapshot, denormalized beer/style/category ids for querying,
// and the snapshot schema version.
func CheckInDocument(checkIn *models.CheckIn) map[string]interface{} {
	doc := map[string]interface{}{
		"date":         checkIn.Date,
		"beer":         BeerDocument(checkIn.Beer),
		"beer_id":      checkIn.Beer.ID,
		"beer_version": beerSchemaVersion,
	}
	doc["beer_style_id"] = nil
	doc["beer_category_id"] = nil
	if checkIn.Beer.Style != nil {
		doc["beer_style_id"] = checkIn.Beer.Style.ID
	}
	if checkIn.Beer.Category != nil {
		doc["beer_category_id"] = checkIn.Beer.Category.ID
	}
	return doc
}

// BeerSummaryDocument builds the merge-upsert payload for the per-beer
// summary record. Only these keys are touched on write; any other fields on
// an existing summary document are preserved by the merge.
func BeerSummaryDocument(beer *models.Beer, lastCheckIn time.Time) map[string]interface{} {
	doc := map[string]interface{}{
		"beer":         BeerDocument(beer),
		"beer_id":      beer.ID,
		"beer_version": beerSchemaVersion,
		"last_checkin": lastCheckIn,
	}
	doc["beer_style_id"] = nil
	doc["beer_category_id"] = nil
	if beer.Style != nil {
		doc["beer_style_id"] = beer.Style.ID
	}
	if beer.Category != nil {
		doc["beer_category_id"] = beer.Category.ID
	}
	return doc
}

// CheckInFromDocument rebuilds a CheckIn from a history-log entry. The stored
// beer_version is read but not branched on.
func CheckInFromDocument(doc map[string]interface{}) (*models.CheckIn, error) {
	date, ok := doc["date"].(time.Time)
	if !ok {
		return nil, fmt.Errorf("check-in entry has no date field")
	}
	beerDoc, ok := doc["beer"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("check-in entry has no beer snapshot")
	}
	return &models.CheckIn{
		Date: date,
		Beer: BeerFromDocument(beerDoc),
	}, nil
}

func stringField(doc map[string]interface{}, key string) string {
	if value, ok := doc[key].(string); ok {
		return value
	}
	return ""
}

// floatField reads a numeric field. Firestore decodes numbers as float64 or
// int64 depending on how they were written, so both are accepted.
func floatField(doc map[string]interface{}, key string) (float64, bool) {
	switch value := doc[key].(type) {
	case float64:
		return value, true
	case int64:
		return float64(value), true
	}
	return 0, false
}

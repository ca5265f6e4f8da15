package core

import (
	"context"

	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// UserData is the per-user data-access contract consumed by the API layer.
//
// InitDB must complete successfully before any other method is called; until
// then every operation fails fast with ErrNotInitialized. The service has
// exactly two states, uninitialized and ready, and the transition is one-way.
type UserData interface {
	// InitDB resolves or lazily creates the user's root document.
	InitDB(ctx context.Context) error

	// FetchCheckInHistory returns one page of check-ins, newest first. When
	// startAfter is non-nil the page continues strictly after that record's
	// date.
	FetchCheckInHistory(ctx context.Context, startAfter *models.CheckIn) (*models.CheckInPage, error)

	// ListenForCheckIn subscribes to check-ins added from now on. The
	// returned subscription must be canceled by the consumer.
	ListenForCheckIn(ctx context.Context) (*CheckInSubscription, error)

	// SaveBeerCheckIn records that the user drank the given beer now.
	SaveBeerCheckIn(ctx context.Context, beer *models.Beer) error
}

// BeerSearch is the beer catalog lookup capability. The User Data Service
// holds a reference to this rather than embedding catalog behavior.
type BeerSearch interface {
	Search(ctx context.Context, pattern string) ([]*models.Beer, error)
}

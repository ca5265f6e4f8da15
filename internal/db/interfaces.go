package db

import (
	"context"
	"errors"
	"time"

	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// ErrNotFound is returned when a document the caller asked for does not exist.
var ErrNotFound = errors.New("document not found")

// UserDataRepository is the storage contract for a user's check-in data.
// The backing store is hierarchical: users/{uid} holds a "history"
// sub-collection (append-only global check-in log) and a "beers"
// sub-collection (one summary document per distinct beer, each with its own
// "history" sub-log of check-in timestamps).
type UserDataRepository interface {
	// EnsureUser resolves the users/{uid} root document, creating it when
	// absent. It returns an error if the document cannot be read back after
	// creation, which signals backing-store inconsistency.
	EnsureUser(ctx context.Context, user *models.User) error

	// CheckInPage returns up to limit check-ins ordered by date descending.
	// When startAfter is non-nil, results continue strictly after that date
	// (cursor pagination, robust to concurrent inserts).
	CheckInPage(ctx context.Context, userID string, startAfter *time.Time, limit int) ([]*models.CheckIn, error)

	// AppendCheckIn adds an entry to the user's global history log.
	AppendCheckIn(ctx context.Context, userID string, checkIn *models.CheckIn) error

	// UpsertBeer merge-writes the per-beer summary document for
	// checkIn's beer: fields not present in the update are preserved.
	UpsertBeer(ctx context.Context, userID string, beer *models.Beer, lastCheckIn time.Time) error

	// AppendBeerCheckIn adds a timestamp-only entry to the per-beer history
	// sub-log.
	AppendBeerCheckIn(ctx context.Context, userID, beerID string, date time.Time) error

	// ListenCheckIns streams history entries added with a date at or after
	// since. Only additions are surfaced; modifications and removals are
	// dropped. The channel is closed when ctx is canceled or on any upstream
	// delivery error - no error value is sent to the consumer.
	ListenCheckIns(ctx context.Context, userID string, since time.Time) (<-chan *models.CheckIn, error)
}

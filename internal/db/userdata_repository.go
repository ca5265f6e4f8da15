package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

const (
	usersCollection   = "users"
	historyCollection = "history"
	beersCollection   = "beers"
)

// firestoreUserDataRepository implements UserDataRepository on Cloud
// Firestore. Document paths follow the mobile app's layout:
//
//	users/{uid}
//	users/{uid}/history/{entryId}
//	users/{uid}/beers/{beerId}
//	users/{uid}/beers/{beerId}/history/{entryId}
type firestoreUserDataRepository struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewFirestoreUserDataRepository creates a UserDataRepository backed by the
// given Firestore client.
func NewFirestoreUserDataRepository(client *firestore.Client, logger *zap.Logger) (UserDataRepository, error) {
	if client == nil {
		return nil, errors.New("firestore client is not initialized for UserDataRepository")
	}
	return &firestoreUserDataRepository{client: client, logger: logger}, nil
}

func (r *firestoreUserDataRepository) userDoc(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

// EnsureUser resolves the users/{uid} root document, creating it lazily on
// first access. If creation reports success but an immediate read-back still
// finds nothing, an error is returned: that state signals backing-store
// inconsistency and no further operation should be attempted.
func (r *firestoreUserDataRepository) EnsureUser(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return errors.New("user ID cannot be empty for EnsureUser operation")
	}

	docRef := r.userDoc(user.ID)
	_, err := docRef.Get(ctx)
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		return fmt.Errorf("failed to get user document for '%s': %w", user.ID, err)
	}

	r.logger.Info("User document not found, creating it", zap.String("userID", user.ID))
	doc := map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
	}
	if user.DisplayName != "" {
		doc["display_name"] = user.DisplayName
	}
	if _, err := docRef.Create(ctx, doc); err != nil {
		// A concurrent first access may have created it between the read and
		// the write; that still satisfies the contract.
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("failed to create user document for '%s': %w", user.ID, err)
		}
	}

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("user document for '%s' missing after creation: %w", user.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to read back user document for '%s': %w", user.ID, err)
	}
	return nil
}

// CheckInPage runs the ordered cursor query over the global history log.
// With a descending order, StartAfter(date) resumes strictly past the given
// date, so pages stay stable under concurrent inserts at the head.
func (r *firestoreUserDataRepository) CheckInPage(ctx context.Context, userID string, startAfter *time.Time, limit int) ([]*models.CheckIn, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for CheckInPage operation")
	}

	query := r.userDoc(userID).Collection(historyCollection).
		OrderBy("date", firestore.Desc).
		Limit(limit)
	if startAfter != nil {
		query = query.StartAfter(*startAfter)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var checkIns []*models.CheckIn
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate check-in history for '%s': %w", userID, err)
		}

		checkIn, err := CheckInFromDocument(doc.Data())
		if err != nil {
			// A malformed entry is skipped rather than failing the page.
			r.logger.Warn("Skipping undecodable check-in entry",
				zap.String("userID", userID),
				zap.String("entryID", doc.Ref.ID),
				zap.Error(err))
			continue
		}
		checkIns = append(checkIns, checkIn)
	}
	return checkIns, nil
}

func (r *firestoreUserDataRepository) AppendCheckIn(ctx context.Context, userID string, checkIn *models.CheckIn) error {
	if userID == "" {
		return errors.New("userID cannot be empty for AppendCheckIn operation")
	}
	_, _, err := r.userDoc(userID).Collection(historyCollection).Add(ctx, CheckInDocument(checkIn))
	if err != nil {
		return fmt.Errorf("failed to append check-in for '%s': %w", userID, err)
	}
	return nil
}

// UpsertBeer writes the per-beer summary with merge semantics: the snapshot
// and last_checkin are replaced, any other fields on an existing document are
// left untouched.
func (r *firestoreUserDataRepository) UpsertBeer(ctx context.Context, userID string, beer *models.Beer, lastCheckIn time.Time) error {
	if userID == "" {
		return errors.New("userID cannot be empty for UpsertBeer operation")
	}
	if beer == nil || beer.ID == "" {
		return errors.New("beer ID cannot be empty for UpsertBeer operation")
	}
	doc := r.userDoc(userID).Collection(beersCollection).Doc(beer.ID)
	if _, err := doc.Set(ctx, BeerSummaryDocument(beer, lastCheckIn), firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to upsert beer summary '%s' for '%s': %w", beer.ID, userID, err)
	}
	return nil
}

func (r *firestoreUserDataRepository) AppendBeerCheckIn(ctx context.Context, userID, beerID string, date time.Time) error {
	if userID == "" || beerID == "" {
		return errors.New("userID and beerID cannot be empty for AppendBeerCheckIn operation")
	}
	history := r.userDoc(userID).Collection(beersCollection).Doc(beerID).Collection(historyCollection)
	if _, _, err := history.Add(ctx, map[string]interface{}{"date": date}); err != nil {
		return fmt.Errorf("failed to append beer history entry '%s' for '%s': %w", beerID, userID, err)
	}
	return nil
}

// ListenCheckIns opens a snapshot listener on the history log, filtered
// server-side to entries dated at or after since. Only DocumentAdded changes
// are forwarded. The returned channel is closed when ctx is canceled or when
// snapshot delivery fails; consumers see end-of-stream either way.
func (r *firestoreUserDataRepository) ListenCheckIns(ctx context.Context, userID string, since time.Time) (<-chan *models.CheckIn, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListenCheckIns operation")
	}

	query := r.userDoc(userID).Collection(historyCollection).
		Where("date", ">=", since).
		OrderBy("date", firestore.Asc)

	snapshots := query.Snapshots(ctx)
	out := make(chan *models.CheckIn)

	go func() {
		defer close(out)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if ctx.Err() == nil {
					r.logger.Warn("Check-in snapshot listener terminated",
						zap.String("userID", userID),
						zap.Error(err))
				}
				return
			}

			for _, change := range snap.Changes {
				if change.Kind != firestore.DocumentAdded {
					continue
				}
				checkIn, err := CheckInFromDocument(change.Doc.Data())
				if err != nil {
					r.logger.Warn("Skipping undecodable check-in event",
						zap.String("userID", userID),
						zap.Error(err))
					continue
				}
				select {
				case out <- checkIn:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

package core

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/db"
	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// checkInPageSize is the fixed page size for history pagination.
const checkInPageSize = 20

// ErrNotInitialized is returned when an operation is invoked before InitDB
// has completed successfully. This is a programmer error, not a transient
// condition: no retry will help.
var ErrNotInitialized = errors.New("user data service is not initialized; call InitDB first")

// CheckInSubscription is a live stream of check-ins added after subscription
// start. Updates is closed when the subscription is canceled or when upstream
// delivery fails; the consumer cannot distinguish the two (silent-termination
// policy inherited from the mobile app).
type CheckInSubscription struct {
	updates <-chan *models.CheckIn
	cancel  context.CancelFunc
}

// Updates returns the stream of incoming check-ins.
func (s *CheckInSubscription) Updates() <-chan *models.CheckIn {
	return s.updates
}

// Cancel synchronously releases the underlying listener. No further check-ins
// are emitted after Cancel returns; calling it more than once is safe.
func (s *CheckInSubscription) Cancel() {
	s.cancel()
}

// userDataService implements UserData for a single authenticated user.
type userDataService struct {
	repo   db.UserDataRepository
	user   *models.User
	logger *zap.Logger
	ready  atomic.Bool
	now    func() time.Time
}

// NewUserDataService creates the UserData service for one user. The caller is
// expected to invoke InitDB before anything else; UserDataManager does both.
func NewUserDataService(repo db.UserDataRepository, user *models.User, logger *zap.Logger) UserData {
	return &userDataService{
		repo:   repo,
		user:   user,
		logger: logger,
		now:    time.Now,
	}
}

// InitDB resolves or lazily creates the user's root document and moves the
// service into the ready state. The transition is one-way; a second call on a
// ready service is a no-op.
func (s *userDataService) InitDB(ctx context.Context) error {
	if s.ready.Load() {
		return nil
	}
	if err := s.repo.EnsureUser(ctx, s.user); err != nil {
		return fmt.Errorf("failed to initialize user document: %w", err)
	}
	s.ready.Store(true)
	s.logger.Info("User data service ready", zap.String("userID", s.user.ID))
	return nil
}

func (s *userDataService) checkReady() error {
	if !s.ready.Load() {
		return ErrNotInitialized
	}
	return nil
}

// FetchCheckInHistory returns up to checkInPageSize check-ins ordered by date
// descending. HasMore is set iff the page came back full - a heuristic that
// can report true when the full page was exactly the last of the data.
func (s *userDataService) FetchCheckInHistory(ctx context.Context, startAfter *models.CheckIn) (*models.CheckInPage, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	var cursor *time.Time
	if startAfter != nil {
		cursor = &startAfter.Date
	}

	checkIns, err := s.repo.CheckInPage(ctx, s.user.ID, cursor, checkInPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch check-in history: %w", err)
	}

	return &models.CheckInPage{
		CheckIns: checkIns,
		HasMore:  len(checkIns) == checkInPageSize,
	}, nil
}

// ListenForCheckIn subscribes to history entries added with a date at or
// after now. Modified and removed entries are never surfaced.
func (s *userDataService) ListenForCheckIn(ctx context.Context) (*CheckInSubscription, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}

	listenCtx, cancel := context.WithCancel(ctx)
	updates, err := s.repo.ListenCheckIns(listenCtx, s.user.ID, s.now())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open check-in listener: %w", err)
	}
	return &CheckInSubscription{updates: updates, cancel: cancel}, nil
}

// SaveBeerCheckIn performs the three-step write sequence: append to the
// global history log, merge-upsert the per-beer summary, append to the
// per-beer history sub-log. The steps run strictly in that order and are not
// transactional - if a later step fails, earlier steps stay committed and the
// failing step's error is returned.
func (s *userDataService) SaveBeerCheckIn(ctx context.Context, beer *models.Beer) error {
	if err := s.checkReady(); err != nil {
		return err
	}
	if beer == nil || beer.ID == "" {
		return errors.New("beer with a non-empty ID is required to save a check-in")
	}

	date := s.now()
	checkIn := &models.CheckIn{Date: date, Beer: beer}

	if err := s.repo.AppendCheckIn(ctx, s.user.ID, checkIn); err != nil {
		return fmt.Errorf("failed to append check-in to history: %w", err)
	}
	if err := s.repo.UpsertBeer(ctx, s.user.ID, beer, date); err != nil {
		return fmt.Errorf("failed to upsert beer summary: %w", err)
	}
	if err := s.repo.AppendBeerCheckIn(ctx, s.user.ID, beer.ID, date); err != nil {
		return fmt.Errorf("failed to append per-beer history entry: %w", err)
	}

	s.logger.Debug("Check-in saved",
		zap.String("userID", s.user.ID),
		zap.String("beerID", beer.ID),
		zap.Time("date", date))
	return nil
}

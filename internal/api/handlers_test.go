package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mbilawisdom/Beer-Me-Up/internal/catalog"
	"github.com/mbilawisdom/Beer-Me-Up/internal/core"
	"github.com/mbilawisdom/Beer-Me-Up/internal/models"
)

// stubRepository satisfies db.UserDataRepository for handler tests.
type stubRepository struct {
	page      []*models.CheckIn
	saveCalls int
}

func (s *stubRepository) EnsureUser(ctx context.Context, user *models.User) error { return nil }

func (s *stubRepository) CheckInPage(ctx context.Context, userID string, startAfter *time.Time, limit int) ([]*models.CheckIn, error) {
	return s.page, nil
}

func (s *stubRepository) AppendCheckIn(ctx context.Context, userID string, checkIn *models.CheckIn) error {
	s.saveCalls++
	return nil
}

func (s *stubRepository) UpsertBeer(ctx context.Context, userID string, beer *models.Beer, lastCheckIn time.Time) error {
	return nil
}

func (s *stubRepository) AppendBeerCheckIn(ctx context.Context, userID, beerID string, date time.Time) error {
	return nil
}

func (s *stubRepository) ListenCheckIns(ctx context.Context, userID string, since time.Time) (<-chan *models.CheckIn, error) {
	ch := make(chan *models.CheckIn)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

type stubSearch struct {
	beers []*models.Beer
	err   error
}

func (s *stubSearch) Search(ctx context.Context, pattern string) ([]*models.Beer, error) {
	return s.beers, s.err
}

// testRouter wires the handlers behind a middleware stub that injects an
// authenticated user, sidestepping real Firebase token verification.
func testRouter(repo *stubRepository, search core.BeerSearch) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	manager := core.NewUserDataManager(repo, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("currentUser", &models.User{ID: "uid-1"})
	})

	userDataHandler := NewUserDataHandler(manager, logger)
	catalogHandler := NewCatalogHandler(search, logger)
	router.GET("/api/v1/checkins", userDataHandler.GetCheckInHistory)
	router.POST("/api/v1/checkins", userDataHandler.SaveCheckIn)
	router.GET("/api/v1/beers/search", catalogHandler.SearchBeers)
	return router
}

func TestGetCheckInHistory_EmptyPage(t *testing.T) {
	router := testRouter(&stubRepository{}, &stubSearch{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkins", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var page models.CheckInPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.NotNil(t, page.CheckIns)
	assert.Empty(t, page.CheckIns)
	assert.False(t, page.HasMore)
}

func TestGetCheckInHistory_BadCursor(t *testing.T) {
	router := testRouter(&stubRepository{}, &stubSearch{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkins?startAfter=yesterday", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveCheckIn(t *testing.T) {
	repo := &stubRepository{}
	router := testRouter(repo, &stubSearch{})

	body := `{"beer":{"id":"beer-1","name":"Punk IPA"}}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, repo.saveCalls)
}

func TestSaveCheckIn_RejectsMissingBeer(t *testing.T) {
	router := testRouter(&stubRepository{}, &stubSearch{})

	for _, body := range []string{`{}`, `{"beer":{"name":"no id"}}`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestSearchBeers_RequiresQuery(t *testing.T) {
	router := testRouter(&stubRepository{}, &stubSearch{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/beers/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchBeers_UpstreamStatusBecomesBadGateway(t *testing.T) {
	search := &stubSearch{err: &catalog.StatusError{StatusCode: http.StatusTooManyRequests}}
	router := testRouter(&stubRepository{}, search)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/beers/search?q=ipa", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSearchBeers_ReturnsResults(t *testing.T) {
	search := &stubSearch{beers: []*models.Beer{{ID: "b1", Name: "Punk IPA"}}}
	router := testRouter(&stubRepository{}, search)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/beers/search?q=punk", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Beers, 1)
	assert.Equal(t, "Punk IPA", resp.Beers[0].Name)
}

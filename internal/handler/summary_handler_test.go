package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/enrollment-summary-api/internal/dto"
	"github.com/openlms/enrollment-summary-api/internal/middleware"
	"github.com/openlms/enrollment-summary-api/internal/models"
	"github.com/openlms/enrollment-summary-api/internal/service"
	appErrors "github.com/openlms/enrollment-summary-api/pkg/errors"
)

type fakeFilterResolver struct {
	spec    models.FilterSpec
	err     error
	lastRaw service.RawFilter
}

func (f *fakeFilterResolver) Resolve(ctx context.Context, principal *models.JWTClaims, raw service.RawFilter) (models.FilterSpec, error) {
	f.lastRaw = raw
	if f.err != nil {
		return models.FilterSpec{}, f.err
	}
	return f.spec, nil
}

type fakeSummaryProvider struct {
	page     *dto.SummaryPage
	stats    *models.UserEnrollmentStats
	listErr  error
	statsErr error
}

func (f *fakeSummaryProvider) List(ctx context.Context, spec models.FilterSpec) (*dto.SummaryPage, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.page, nil
}

func (f *fakeSummaryProvider) UserStats(ctx context.Context, principal *models.JWTClaims, userID int64) (*models.UserEnrollmentStats, error) {
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return f.stats, nil
}

func setupSummaryRequest(t *testing.T, target string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func testClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: 1, Username: "admin", Staff: true}
}

func samplePage() *dto.SummaryPage {
	return &dto.SummaryPage{
		Count:      3,
		Page:       2,
		PageSize:   1,
		TotalPages: 3,
		Results: []dto.EnrollmentSummary{{
			UserID:           1,
			Username:         "admin",
			CourseKey:        "course-v1:edX+DemoX+2024",
			CourseTitle:      "Demo Course",
			EnrollmentStatus: "active",
			EnrollmentMode:   "audit",
			IsActive:         true,
			CreatedDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestSummaryHandlerListOK(t *testing.T) {
	resolver := &fakeFilterResolver{spec: models.FilterSpec{Page: 2, PageSize: 1}}
	provider := &fakeSummaryProvider{page: samplePage()}
	h := NewSummaryHandler(resolver, provider, 5*time.Minute)

	c, w := setupSummaryRequest(t, "/api/enrollments/summary?active=true&page=2&page_size=1", testClaims())
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "max-age=300, public", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("ETag"))

	var page dto.SummaryPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 1, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "course-v1:edX+DemoX+2024", page.Results[0].CourseKey)

	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=3")
	assert.Contains(t, *page.Next, "active=true")
	require.NotNil(t, page.Previous)
	assert.Contains(t, *page.Previous, "page=1")

	assert.Equal(t, "true", resolver.lastRaw.Active)
	assert.Equal(t, "2", resolver.lastRaw.Page)
	assert.Equal(t, "1", resolver.lastRaw.PageSize)
}

func TestSummaryHandlerListNoAuth(t *testing.T) {
	h := NewSummaryHandler(&fakeFilterResolver{}, &fakeSummaryProvider{}, 0)

	c, w := setupSummaryRequest(t, "/api/enrollments/summary", nil)
	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestSummaryHandlerListResolverError(t *testing.T) {
	resolver := &fakeFilterResolver{err: appErrors.Clone(appErrors.ErrInvalidParameter, "invalid course_key: nope")}
	h := NewSummaryHandler(resolver, &fakeSummaryProvider{}, 0)

	c, w := setupSummaryRequest(t, "/api/enrollments/summary?course_key=nope", testClaims())
	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid course_key: nope", body["error"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestSummaryHandlerListProviderError(t *testing.T) {
	provider := &fakeSummaryProvider{listErr: appErrors.ErrDataSource}
	h := NewSummaryHandler(&fakeFilterResolver{}, provider, 0)

	c, w := setupSummaryRequest(t, "/api/enrollments/summary", testClaims())
	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSummaryHandlerUserStatsOK(t *testing.T) {
	provider := &fakeSummaryProvider{stats: &models.UserEnrollmentStats{
		UserID: 7, Username: "learner7", TotalEnrollments: 4, ActiveEnrollments: 3, InactiveEnrollments: 1,
	}}
	h := NewSummaryHandler(&fakeFilterResolver{}, provider, 0)

	c, w := setupSummaryRequest(t, "/api/enrollments/summary/users/7/stats", testClaims())
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	h.UserStats(c)

	require.Equal(t, http.StatusOK, w.Code)
	var stats models.UserEnrollmentStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(7), stats.UserID)
	assert.Equal(t, 4, stats.TotalEnrollments)
}

func TestSummaryHandlerUserStatsInvalidID(t *testing.T) {
	h := NewSummaryHandler(&fakeFilterResolver{}, &fakeSummaryProvider{}, 0)

	for _, raw := range []string{"abc", "0", "-3"} {
		c, w := setupSummaryRequest(t, "/api/enrollments/summary/users/"+raw+"/stats", testClaims())
		c.Params = gin.Params{{Key: "id", Value: raw}}
		h.UserStats(c)
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", raw)
	}
}

func TestSummaryHandlerUserStatsForbidden(t *testing.T) {
	provider := &fakeSummaryProvider{statsErr: appErrors.ErrForbidden}
	h := NewSummaryHandler(&fakeFilterResolver{}, provider, 0)

	c, w := setupSummaryRequest(t, "/api/enrollments/summary/users/9/stats", testClaims())
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	h.UserStats(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

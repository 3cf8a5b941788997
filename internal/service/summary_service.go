package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/openlms/enrollment-summary-api/internal/dto"
	"github.com/openlms/enrollment-summary-api/internal/models"
	appErrors "github.com/openlms/enrollment-summary-api/pkg/errors"
)

// Fallback values substituted when course enrichment data is unavailable.
const (
	fallbackCourseTitle = "Unknown Course"
	untitledCourseTitle = "Untitled Course"
)

const gradedCountKeyPrefix = "graded_subsections_count:"

type enrollmentStore interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.CourseEnrollment, error)
	CountsByUser(ctx context.Context, userID int64) (*models.EnrollmentCounts, error)
}

type overviewStore interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]models.CourseOverview, error)
}

type contentStore interface {
	FindChapters(ctx context.Context, courseID string) ([]models.CourseChapter, error)
}

type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// SummaryServiceConfig tunes the two cache layers. The graded-count TTL is
// deliberately much longer than the result TTL: course structure changes far
// less often than enrollment state.
type SummaryServiceConfig struct {
	CacheTTL       time.Duration
	GradedCountTTL time.Duration
}

// SummaryService is the aggregation engine: it joins the enrollment store,
// the course-overview store and the course content tree into ordered
// enrollment summaries, and memoizes whole-query results.
type SummaryService struct {
	enrollments enrollmentStore
	overviews   overviewStore
	content     contentStore
	users       userReader
	cache       *CacheService
	logger      *zap.Logger
	cfg         SummaryServiceConfig
}

// SummaryServiceParams groups constructor dependencies.
type SummaryServiceParams struct {
	Enrollments enrollmentStore
	Overviews   overviewStore
	Content     contentStore
	Users       userReader
	Cache       *CacheService
	Logger      *zap.Logger
	Config      SummaryServiceConfig
}

// NewSummaryService constructs a SummaryService with sane defaults.
func NewSummaryService(params SummaryServiceParams) *SummaryService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.GradedCountTTL <= 0 {
		cfg.GradedCountTTL = 6 * time.Hour
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{
		enrollments: params.Enrollments,
		overviews:   params.Overviews,
		content:     params.Content,
		users:       params.Users,
		cache:       params.Cache,
		logger:      logger,
		cfg:         cfg,
	}
}

// List returns one page of enrollment summaries for the filter. The full
// ordered result is memoized under the filter's cache key; pages are sliced
// from the cached list so identical filters within the TTL never re-run the
// aggregation. A page past the end yields empty results with the true count.
func (s *SummaryService) List(ctx context.Context, spec models.FilterSpec) (*dto.SummaryPage, error) {
	cacheKey := spec.CacheKey()

	var full []dto.EnrollmentSummary
	hit, _ := s.cache.Get(ctx, cacheKey, &full)
	if !hit {
		var err error
		full, err = s.Produce(ctx, spec)
		if err != nil {
			return nil, err
		}
		_ = s.cache.Set(ctx, cacheKey, full, s.cfg.CacheTTL)
	}

	total := len(full)
	size := spec.PageSize
	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}

	results := make([]dto.EnrollmentSummary, 0, size)
	start := (spec.Page - 1) * size
	if start < total {
		end := start + size
		if end > total {
			end = total
		}
		results = append(results, full[start:end]...)
	}

	return &dto.SummaryPage{
		Count:      total,
		Page:       spec.Page,
		PageSize:   size,
		TotalPages: totalPages,
		Results:    results,
	}, nil
}

// Produce runs the aggregation pipeline: fetch matching enrollments ordered
// by recency, batch-fetch overview metadata and graded counts for the
// distinct courses (O(distinct courses), never O(enrollments)), then merge.
// Only the enrollment store is fatal; enrichment failures degrade per course.
func (s *SummaryService) Produce(ctx context.Context, spec models.FilterSpec) ([]dto.EnrollmentSummary, error) {
	records, err := s.enrollments.List(ctx, spec.EnrollmentFilter())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "enrollment store query failed")
	}

	courseIDs := distinctCourseIDs(records)

	overviews, err := s.overviews.FindByIDs(ctx, courseIDs)
	if err != nil {
		s.logger.Warn("course overview batch fetch failed", zap.Error(err))
		overviews = map[string]models.CourseOverview{}
	}

	counts := make(map[string]int, len(courseIDs))
	for _, courseID := range courseIDs {
		counts[courseID] = s.gradedSubsectionCount(ctx, courseID)
	}

	summaries := make([]dto.EnrollmentSummary, 0, len(records))
	for _, record := range records {
		summary, err := buildSummary(record, overviews, counts)
		if err != nil {
			s.logger.Error("skipping malformed enrollment record",
				zap.Int64("enrollment_id", record.ID), zap.Error(err))
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// UserStats returns per-user enrollment totals, staff-or-self scoped.
func (s *SummaryService) UserStats(ctx context.Context, principal *models.JWTClaims, userID int64) (*models.UserEnrollmentStats, error) {
	if principal == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !principal.Staff && userID != principal.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not permitted to view other users' enrollments")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownUser, "user does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "user directory lookup failed")
	}

	counts, err := s.enrollments.CountsByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataSource.Code, appErrors.ErrDataSource.Status, "enrollment store query failed")
	}

	return &models.UserEnrollmentStats{
		UserID:              user.ID,
		Username:            user.Username,
		TotalEnrollments:    counts.Total,
		ActiveEnrollments:   counts.Active,
		InactiveEnrollments: counts.Inactive,
	}, nil
}

// gradedSubsectionCount resolves the graded-subsection count for one course
// through the side cache. A traversal failure or unknown course counts as 0;
// the result is cached either way so a flapping content store cannot turn
// every summary request into a tree walk.
func (s *SummaryService) gradedSubsectionCount(ctx context.Context, courseID string) int {
	cacheKey := gradedCountKeyPrefix + courseID

	var cached int
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return cached
	}

	count := 0
	chapters, err := s.content.FindChapters(ctx, courseID)
	if err != nil {
		s.logger.Warn("course content traversal failed",
			zap.String("course_id", courseID), zap.Error(err))
	} else {
		for _, chapter := range chapters {
			for _, subsection := range chapter.Subsections {
				if subsection.Graded {
					count++
				}
			}
		}
	}

	_ = s.cache.Set(ctx, cacheKey, count, s.cfg.GradedCountTTL)
	return count
}

func buildSummary(record models.CourseEnrollment, overviews map[string]models.CourseOverview, counts map[string]int) (dto.EnrollmentSummary, error) {
	if record.CourseID == "" {
		return dto.EnrollmentSummary{}, errors.New("enrollment record has no course id")
	}

	summary := dto.EnrollmentSummary{
		UserID:                 record.UserID,
		Username:               record.Username,
		CourseKey:              record.CourseID,
		CourseTitle:            fallbackCourseTitle,
		EnrollmentStatus:       enrollmentStatus(record.IsActive),
		EnrollmentMode:         record.Mode,
		IsActive:               record.IsActive,
		CreatedDate:            record.Created,
		GradedSubsectionsCount: counts[record.CourseID],
	}

	if overview, ok := overviews[record.CourseID]; ok {
		summary.CourseTitle = overview.DisplayName
		if summary.CourseTitle == "" {
			summary.CourseTitle = untitledCourseTitle
		}
		summary.CourseStart = overview.StartDate
		summary.CourseEnd = overview.EndDate
	}

	return summary, nil
}

func enrollmentStatus(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func distinctCourseIDs(records []models.CourseEnrollment) []string {
	seen := make(map[string]struct{}, len(records))
	ids := make([]string, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.CourseID]; ok {
			continue
		}
		seen[record.CourseID] = struct{}{}
		ids = append(ids, record.CourseID)
	}
	return ids
}

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/openlms/enrollment-summary-api/internal/models"
)

// overviewChunkSize bounds the IN-list length of one batch query.
const overviewChunkSize = 100

// CourseOverviewRepository reads course display metadata.
type CourseOverviewRepository struct {
	db *sqlx.DB
}

// NewCourseOverviewRepository constructs the repository.
func NewCourseOverviewRepository(db *sqlx.DB) *CourseOverviewRepository {
	return &CourseOverviewRepository{db: db}
}

// FindByIDs batch-fetches overviews for the given course identifiers and
// returns them keyed by course id. Identifiers without an overview row are
// simply absent from the map.
func (r *CourseOverviewRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.CourseOverview, error) {
	overviews := make(map[string]models.CourseOverview, len(ids))
	if len(ids) == 0 {
		return overviews, nil
	}

	for start := 0; start < len(ids); start += overviewChunkSize {
		end := start + overviewChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		query, args, err := sqlx.In(`SELECT id, display_name, short_description, start_date, end_date FROM course_overviews WHERE id IN (?)`, chunk)
		if err != nil {
			return nil, fmt.Errorf("build overview query: %w", err)
		}
		query = r.db.Rebind(query)

		var rows []models.CourseOverview
		if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
			return nil, fmt.Errorf("fetch course overviews: %w", err)
		}
		for _, overview := range rows {
			overviews[overview.ID] = overview
		}
	}

	return overviews, nil
}

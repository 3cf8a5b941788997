package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/openlms/enrollment-summary-api/internal/models"
)

// EnrollmentRepository queries the host platform's enrollment store. The
// store is read-only from this service.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments matching the filter, joined with the owning
// username, ordered by creation timestamp descending. The ordering is a
// user-visible contract consumed by the pagination layer.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.CourseEnrollment, error) {
	base := `SELECT e.id, e.user_id, u.username, e.course_id, e.mode, e.is_active, e.created
FROM course_enrollments e
JOIN users u ON u.id = e.user_id`

	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("e.user_id = $%d", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("e.is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("e.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.created DESC"

	var enrollments []models.CourseEnrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// CountsByUser aggregates enrollment totals for one user in a single query.
func (r *EnrollmentRepository) CountsByUser(ctx context.Context, userID int64) (*models.EnrollmentCounts, error) {
	const query = `SELECT COUNT(*) AS total,
        COUNT(*) FILTER (WHERE is_active) AS active,
        COUNT(*) FILTER (WHERE NOT is_active) AS inactive
        FROM course_enrollments WHERE user_id = $1`
	var counts models.EnrollmentCounts
	if err := r.db.GetContext(ctx, &counts, query, userID); err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	return &counts, nil
}

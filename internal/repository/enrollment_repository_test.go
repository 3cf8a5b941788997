package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/openlms/enrollment-summary-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func enrollmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "username", "course_id", "mode", "is_active", "created"})
}

func TestEnrollmentRepositoryListUnfiltered(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := enrollmentRows().
		AddRow(2, 1, "u1", "course-v1:edX+A+2024", "verified", true, time.Now()).
		AddRow(1, 1, "u1", "course-v1:edX+B+2024", "audit", false, time.Now().Add(-time.Hour))
	mock.ExpectQuery(`(?s)SELECT e\.id, e\.user_id, u\.username, e\.course_id, e\.mode, e\.is_active, e\.created.*JOIN users u ON u\.id = e\.user_id ORDER BY e\.created DESC`).
		WillReturnRows(rows)

	enrollments, err := repo.List(context.Background(), models.EnrollmentFilter{})
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	require.Equal(t, "course-v1:edX+A+2024", enrollments[0].CourseID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	userID := int64(7)
	active := true
	filter := models.EnrollmentFilter{}
	filter.UserID = &userID
	filter.Active = &active
	filter.CourseID = "course-v1:edX+A+2024"

	rows := enrollmentRows().
		AddRow(3, 7, "u7", "course-v1:edX+A+2024", "audit", true, time.Now())
	mock.ExpectQuery(`(?s)WHERE e\.user_id = \$1 AND e\.is_active = \$2 AND e\.course_id = \$3 ORDER BY e\.created DESC`).
		WithArgs(userID, active, "course-v1:edX+A+2024").
		WillReturnRows(rows)

	enrollments, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	require.Equal(t, int64(7), enrollments[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListQueryError(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery(`SELECT e\.id`).WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), models.EnrollmentFilter{})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCountsByUser(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"total", "active", "inactive"}).AddRow(5, 3, 2)
	mock.ExpectQuery(regexp.QuoteMeta(`COUNT(*) FILTER (WHERE is_active) AS active`)).
		WithArgs(int64(7)).
		WillReturnRows(rows)

	counts, err := repo.CountsByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, 5, counts.Total)
	require.Equal(t, 3, counts.Active)
	require.Equal(t, 2, counts.Inactive)
	require.NoError(t, mock.ExpectationsWereMet())
}

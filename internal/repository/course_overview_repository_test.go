package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestCourseOverviewRepositoryFindByIDs(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseOverviewRepository(db)

	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "display_name", "short_description", "start_date", "end_date"}).
		AddRow("course-v1:edX+A+2024", "Algebra", nil, start, nil)
	// the sqlmock driver keeps ? placeholders through Rebind
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, display_name, short_description, start_date, end_date FROM course_overviews WHERE id IN (?, ?)`)).
		WithArgs("course-v1:edX+A+2024", "course-v1:edX+B+2024").
		WillReturnRows(rows)

	overviews, err := repo.FindByIDs(context.Background(), []string{"course-v1:edX+A+2024", "course-v1:edX+B+2024"})
	require.NoError(t, err)
	require.Len(t, overviews, 1)

	overview, ok := overviews["course-v1:edX+A+2024"]
	require.True(t, ok)
	require.Equal(t, "Algebra", overview.DisplayName)
	require.NotNil(t, overview.StartDate)

	_, ok = overviews["course-v1:edX+B+2024"]
	require.False(t, ok, "courses without an overview row are absent")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseOverviewRepositoryFindByIDsEmpty(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseOverviewRepository(db)

	overviews, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, overviews)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseOverviewRepositoryFindByIDsChunks(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewCourseOverviewRepository(db)

	ids := make([]string, 0, overviewChunkSize+1)
	for i := 0; i < overviewChunkSize+1; i++ {
		ids = append(ids, "course-v1:edX+C+"+string(rune('A'+i%26))+"0")
	}
	// second expectation forces a second round trip once the chunk size is exceeded
	mock.ExpectQuery(`SELECT id, display_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "short_description", "start_date", "end_date"}))
	mock.ExpectQuery(`SELECT id, display_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "short_description", "start_date", "end_date"}))

	_, err := repo.FindByIDs(context.Background(), ids)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

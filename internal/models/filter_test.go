package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlms/enrollment-summary-api/pkg/coursekey"
)

func TestFilterSpecCacheKey(t *testing.T) {
	userID := int64(42)
	active := true
	key, err := coursekey.Parse("course-v1:edX+DemoX+2024")
	require.NoError(t, err)

	assert.Equal(t, "enrollment_summaries", FilterSpec{}.CacheKey())
	assert.Equal(t, "enrollment_summaries:user_42", FilterSpec{UserID: &userID}.CacheKey())
	assert.Equal(t, "enrollment_summaries:user_42:active_true",
		FilterSpec{UserID: &userID, Active: &active}.CacheKey())
	assert.Equal(t, "enrollment_summaries:user_42:active_true:course_course-v1_edX_DemoX_2024",
		FilterSpec{UserID: &userID, Active: &active, CourseKey: &key}.CacheKey())
}

func TestFilterSpecCacheKeyIgnoresPagination(t *testing.T) {
	userID := int64(42)
	a := FilterSpec{UserID: &userID, Page: 1, PageSize: 20}
	b := FilterSpec{UserID: &userID, Page: 3, PageSize: 50}
	assert.Equal(t, a.CacheKey(), b.CacheKey(), "pages slice one cached result")
}

func TestFilterSpecEnrollmentFilter(t *testing.T) {
	userID := int64(7)
	active := false
	key, err := coursekey.Parse("course-v1:edX+DemoX+2024")
	require.NoError(t, err)

	filter := FilterSpec{UserID: &userID, Active: &active, CourseKey: &key}.EnrollmentFilter()
	require.NotNil(t, filter.UserID)
	assert.Equal(t, int64(7), *filter.UserID)
	require.NotNil(t, filter.Active)
	assert.False(t, *filter.Active)
	assert.Equal(t, "course-v1:edX+DemoX+2024", filter.CourseID)
}

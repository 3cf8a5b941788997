package models

import (
	"fmt"
	"strings"

	"github.com/openlms/enrollment-summary-api/pkg/coursekey"
)

// FilterSpec is a validated summary query: optional filters plus pagination.
// It is produced by the filter resolver; handlers never build one directly.
type FilterSpec struct {
	UserID    *int64
	Active    *bool
	CourseKey *coursekey.Key
	Page      int
	PageSize  int
}

// CacheKey encodes the filter fields (pagination excluded — the full ordered
// list is cached once and sliced per page) into a deterministic Redis key.
func (s FilterSpec) CacheKey() string {
	parts := []string{"enrollment_summaries"}
	if s.UserID != nil {
		parts = append(parts, fmt.Sprintf("user_%d", *s.UserID))
	}
	if s.Active != nil {
		parts = append(parts, fmt.Sprintf("active_%t", *s.Active))
	}
	if s.CourseKey != nil {
		parts = append(parts, "course_"+s.CourseKey.CacheToken())
	}
	return strings.Join(parts, ":")
}

// EnrollmentFilter converts the FilterSpec into the repository-level filter.
func (s FilterSpec) EnrollmentFilter() EnrollmentFilter {
	filter := EnrollmentFilter{UserID: s.UserID, Active: s.Active}
	if s.CourseKey != nil {
		filter.CourseID = s.CourseKey.String()
	}
	return filter
}

package dto

import "time"

// EnrollmentSummary is one enrollment joined with course metadata and the
// derived graded-subsection count. The field set is fixed regardless of which
// filters were applied; missing enrichment data is substituted with fallback
// values, never omitted.
type EnrollmentSummary struct {
	UserID                 int64      `json:"user_id"`
	Username               string     `json:"username"`
	CourseKey              string     `json:"course_key"`
	CourseTitle            string     `json:"course_title"`
	EnrollmentStatus       string     `json:"enrollment_status"`
	EnrollmentMode         string     `json:"enrollment_mode"`
	IsActive               bool       `json:"is_active"`
	CreatedDate            time.Time  `json:"created_date"`
	GradedSubsectionsCount int        `json:"graded_subsections_count"`
	CourseStart            *time.Time `json:"course_start"`
	CourseEnd              *time.Time `json:"course_end"`
}

// SummaryPage is the paginated wire envelope for GET /summary. Next and
// Previous are filled by the handler from the request URL.
type SummaryPage struct {
	Count      int                 `json:"count"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
	Next       *string             `json:"next"`
	Previous   *string             `json:"previous"`
	Results    []EnrollmentSummary `json:"results"`
}

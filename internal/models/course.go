package models

import "time"

// CourseOverview holds the display metadata kept for a course run. A course
// with enrollments may have no overview row (stale or externally deleted
// course); callers must fall back rather than fail.
type CourseOverview struct {
	ID               string     `db:"id" json:"id"`
	DisplayName      string     `db:"display_name" json:"display_name"`
	ShortDescription *string    `db:"short_description" json:"short_description,omitempty"`
	StartDate        *time.Time `db:"start_date" json:"start_date,omitempty"`
	EndDate          *time.Time `db:"end_date" json:"end_date,omitempty"`
}

// CourseBlock is one node of the course content tree.
type CourseBlock struct {
	ID          int64  `db:"id" json:"id"`
	CourseID    string `db:"course_id" json:"course_id"`
	ParentID    *int64 `db:"parent_id" json:"parent_id,omitempty"`
	BlockType   string `db:"block_type" json:"block_type"`
	DisplayName string `db:"display_name" json:"display_name"`
	Graded      bool   `db:"graded" json:"graded"`
	Ordinal     int    `db:"ordinal" json:"ordinal"`
}

// Block types stored in the content tree.
const (
	BlockTypeChapter    = "chapter"
	BlockTypeSequential = "sequential"
)

// CourseChapter groups a chapter block with its subsections in tree order.
type CourseChapter struct {
	CourseBlock
	Subsections []CourseBlock `json:"subsections"`
}

package models

import "time"

// CourseEnrollment captures a (user, course) pairing as stored by the host
// platform. At most one active row exists per pair; that invariant is
// enforced upstream and not re-validated here.
type CourseEnrollment struct {
	ID       int64     `db:"id" json:"id"`
	UserID   int64     `db:"user_id" json:"user_id"`
	Username string    `db:"username" json:"username"`
	CourseID string    `db:"course_id" json:"course_id"`
	Mode     string    `db:"mode" json:"mode"`
	IsActive bool      `db:"is_active" json:"is_active"`
	Created  time.Time `db:"created" json:"created"`
}

// EnrollmentFilter provides optional filters for the enrollment query. All
// present filters compose with AND semantics.
type EnrollmentFilter struct {
	UserID   *int64
	Active   *bool
	CourseID string
}

// EnrollmentCounts aggregates per-user enrollment totals.
type EnrollmentCounts struct {
	Total    int `db:"total"`
	Active   int `db:"active"`
	Inactive int `db:"inactive"`
}

// UserEnrollmentStats is the wire shape of the per-user stats endpoint.
type UserEnrollmentStats struct {
	UserID              int64  `json:"user_id"`
	Username            string `json:"username"`
	TotalEnrollments    int    `json:"total_enrollments"`
	ActiveEnrollments   int    `json:"active_enrollments"`
	InactiveEnrollments int    `json:"inactive_enrollments"`
}

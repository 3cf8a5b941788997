package models

import "time"

// User mirrors the host platform's user directory row. The directory is
// read-only from this service: accounts are created and managed elsewhere.
type User struct {
	ID          int64     `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Email       string    `db:"email" json:"email"`
	IsStaff     bool      `db:"is_staff" json:"is_staff"`
	IsSuperuser bool      `db:"is_superuser" json:"is_superuser"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	DateJoined  time.Time `db:"date_joined" json:"date_joined"`
}

// Privileged reports whether the user may inspect other users' enrollments.
func (u *User) Privileged() bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}

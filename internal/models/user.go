package models

import "time"

// UserRole is derived from the profile attached to a user.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleProfessor UserRole = "professor"
	RoleUser      UserRole = "user"
)

// User represents an application account stored in the users table.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Student is the profile of a user following courses.
type Student struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user_id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Matricule string `db:"matricule" json:"matricule"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}

// Professor is the profile of a user teaching courses.
type Professor struct {
	ID         string `db:"id" json:"id"`
	UserID     string `db:"user_id" json:"user_id"`
	FirstName  string `db:"first_name" json:"first_name"`
	LastName   string `db:"last_name" json:"last_name"`
	Department string `db:"department" json:"department"`
}

// FullName joins first and last name.
func (p Professor) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Actor is the acting user with its resolved profiles.
type Actor struct {
	User      User       `json:"user"`
	Student   *Student   `json:"student,omitempty"`
	Professor *Professor `json:"professor,omitempty"`
}

// Role reports student first, then professor, else plain user.
func (a *Actor) Role() UserRole {
	switch {
	case a == nil:
		return RoleUser
	case a.Student != nil:
		return RoleStudent
	case a.Professor != nil:
		return RoleProfessor
	default:
		return RoleUser
	}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

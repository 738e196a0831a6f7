package models

import "time"

// Activity is a personal weekly time block owned by a user.
type Activity struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Title          string    `db:"title" json:"title"`
	Description    *string   `db:"description" json:"description,omitempty"`
	DayOfWeek      string    `db:"day_of_week" json:"day_of_week"`
	StartTime      string    `db:"start_time" json:"start_time"`
	EndTime        string    `db:"end_time" json:"end_time"`
	Semester       *string   `db:"semester" json:"semester,omitempty"`
	AcademicalYear *string   `db:"academical_year" json:"academical_year,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// CreateActivityRequest is the payload for a new personal activity.
type CreateActivityRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    *string `json:"description"`
	DayOfWeek      string  `json:"day_of_week" validate:"required,weekday"`
	StartTime      string  `json:"start_time" validate:"required,hhmm"`
	EndTime        string  `json:"end_time" validate:"required,hhmm"`
	Semester       *string `json:"semester" validate:"omitempty,max=20"`
	AcademicalYear *string `json:"academical_year" validate:"omitempty,max=10"`
}

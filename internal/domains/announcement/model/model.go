package model

import (
	"taskpal/shared/model"
	"time"
)

const (
	TableName  = "announcements"
	EntityName = "announcement"

	FieldID        = "id"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldIsActive  = "is_active"
)

const (
	StatePending   = "pending"
	StateActive    = "active"
	StateCompleted = "completed"
)

// Announcement is pending while IsActive is nil, live when true and completed when false.
type Announcement struct {
	ID        string     `db:"id"`
	Title     string     `db:"title"`
	Content   string     `db:"content"`
	StartDate *time.Time `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
	IsActive  *bool      `db:"is_active"`
	model.Metadata
}

func (a Announcement) State() string {
	switch {
	case a.IsActive == nil:
		return StatePending
	case *a.IsActive:
		return StateActive
	default:
		return StateCompleted
	}
}

package model

import (
	"time"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Task struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"size:255;not null"`
	Description string
	Status      string `gorm:"size:50;not null;default:pending;index"`
	Priority    string `gorm:"size:50;not null;default:medium;index"`
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedBy   *uint     `gorm:"index"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

// ValidStatuses lists the accepted status values.
var ValidStatuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

// ValidPriorities lists the accepted priority values.
var ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func IsValidPriority(p string) bool {
	for _, v := range ValidPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// TaskFillable is the set of task columns a partial update may touch.
// Keys outside this set are silently dropped before the write reaches
// the database.
var TaskFillable = map[string]bool{
	"title":        true,
	"description":  true,
	"status":       true,
	"priority":     true,
	"due_date":     true,
	"completed_at": true,
	"created_by":   true,
	"created_at":   true,
	"updated_at":   true,
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Module progress statuses
const (
	ProgressLocked     = "locked"
	ProgressAvailable  = "available"
	ProgressInProgress = "in_progress"
	ProgressCompleted  = "completed"
)

// ModuleProgress tracks a learner's state for one module within one
// enrollment. Rows are created lazily: a missing row means "locked" for
// every module beyond the first.
type ModuleProgress struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"index;not null"`
	ModuleID         uint       `json:"module_id" gorm:"index:idx_module_enrollment,unique;not null"`
	EnrollmentID     uint       `json:"enrollment_id" gorm:"index:idx_module_enrollment,unique;not null"`
	Status           string     `json:"status" gorm:"default:'locked'"` // locked, available, in_progress, completed
	StartedAt        *time.Time `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	QuizScore        *int       `json:"quiz_score"` // 0-100, nil when no quiz taken
	TimeSpentMinutes int        `json:"time_spent_minutes" gorm:"default:0"`
}

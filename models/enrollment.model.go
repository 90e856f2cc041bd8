package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentNotStarted = "not_started"
	EnrollmentInProgress = "in_progress"
	EnrollmentCompleted  = "completed"
)

// Enrollment tracks a learner's registration in a programme with progress.
// At most one enrollment per (user, programme) pair.
type Enrollment struct {
	gorm.Model
	UserID        uint       `json:"user_id" gorm:"index:idx_user_programme,unique;not null"`
	ProgrammeID   uint       `json:"programme_id" gorm:"index:idx_user_programme,unique;not null"`
	Status        string     `json:"status" gorm:"default:'not_started'"` // not_started, in_progress, completed
	CompletionPct float64    `json:"completion_pct" gorm:"default:0"`     // 0-100, one decimal place
	CompletedAt   *time.Time `json:"completed_at"`
	IsDeleted     bool       `gorm:"default:false"`
}

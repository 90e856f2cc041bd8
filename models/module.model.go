package models

import "gorm.io/gorm"

// Module content types
const (
	ContentTypeVideo    = "video"
	ContentTypeReading  = "reading"
	ContentTypeExercise = "exercise"
	ContentTypeQuiz     = "quiz"
)

// Module represents one ordered unit of content within a programme.
// OrderIndex is unique per programme and defines the unlock sequence.
// Modules are never mutated by the progression side.
type Module struct {
	gorm.Model
	ProgrammeID     uint   `json:"programme_id" gorm:"index;not null"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	OrderIndex      int    `json:"order_index" gorm:"index;default:0"`
	DurationMinutes int    `json:"duration_minutes" gorm:"default:0"`
	ContentType     string `json:"content_type" gorm:"default:'reading'"` // video, reading, exercise, quiz
	VideoURL        string `json:"video_url"`
	ContentText     string `json:"content_text" gorm:"type:text"`
	IsDeleted       bool   `gorm:"default:false"`
}

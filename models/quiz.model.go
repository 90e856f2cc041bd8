package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizQuestion belongs to a quiz-type module. OptionC and OptionD may be
// absent for two-option questions. Read-only to the progression side.
type QuizQuestion struct {
	gorm.Model
	ModuleID      uint    `json:"module_id" gorm:"index;not null"`
	QuestionText  string  `json:"question_text" gorm:"type:text"`
	OptionA       string  `json:"option_a"`
	OptionB       string  `json:"option_b"`
	OptionC       *string `json:"option_c"`
	OptionD       *string `json:"option_d"`
	CorrectOption string  `json:"correct_option"` // single letter a-d
	Explanation   string  `json:"explanation" gorm:"type:text"`
}

// QuizAttempt is the audit trail for a graded submission. Grading itself is
// stateless; this row only records what was submitted and scored.
type QuizAttempt struct {
	gorm.Model
	UserID         uint           `json:"user_id" gorm:"index;not null"`
	ModuleID       uint           `json:"module_id" gorm:"index;not null"`
	Answers        datatypes.JSON `json:"answers"` // question id -> submitted letter
	Score          int            `json:"score"`
	CorrectCount   int            `json:"correct_count"`
	TotalQuestions int            `json:"total_questions"`
	Passed         bool           `json:"passed"`
	AttemptNumber  int            `json:"attempt_number" gorm:"default:1"`
}

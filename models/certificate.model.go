package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for programme completion.
// The unique index on EnrollmentID is the database-level backstop for the
// at-most-one-certificate-per-enrollment invariant.
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"user_id" gorm:"index;not null"`
	ProgrammeID       uint      `json:"programme_id" gorm:"index;not null"`
	EnrollmentID      uint      `json:"enrollment_id" gorm:"uniqueIndex;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"uniqueIndex"` // CLX-YYYY-NNNN
	VerifyCode        string    `json:"verify_code" gorm:"uniqueIndex"`
	IssuedAt          time.Time `json:"issued_at"`
	ValidUntil        time.Time `json:"valid_until"` // issued_at + 2 calendar years
	IsExpired         bool      `json:"is_expired" gorm:"default:false"`
}

// CertificateSequence is the per-year counter behind certificate numbers.
// The issuing transaction locks the row, so numbers stay sequential under
// concurrent issuance.
type CertificateSequence struct {
	gorm.Model
	Year       int   `json:"year" gorm:"uniqueIndex;not null"`
	LastNumber int64 `json:"last_number" gorm:"default:0"`
}

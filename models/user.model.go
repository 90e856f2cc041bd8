package models

import "gorm.io/gorm"

// User is the authenticated learner identity. Account management lives in a
// separate identity service; this table is read-only here.
type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Role       string `json:"role" gorm:"default:'learner'"` // learner, hr_admin, climax_admin
	CompanyID  *uint  `json:"company_id" gorm:"index"`
	JobTitle   string `json:"job_title"`
	Department string `json:"department"`
	AvatarURL  string `json:"avatar_url"`
	IsDeleted  bool   `gorm:"default:false"`
}

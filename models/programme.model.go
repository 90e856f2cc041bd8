package models

import "gorm.io/gorm"

// Programme represents a catalogued training programme
type Programme struct {
	gorm.Model
	Title            string `json:"title"`
	Slug             string `json:"slug" gorm:"uniqueIndex;not null"`
	Description      string `json:"description" gorm:"type:text"`
	ShortDescription string `json:"short_description"`
	Category         string `json:"category" gorm:"index"`
	DurationHours    int    `json:"duration_hours" gorm:"default:0"`
	// Display cache maintained by the content side; completion is always
	// recomputed from live module counts, never from this field.
	ModuleCount     int    `json:"module_count" gorm:"default:0"`
	DifficultyLevel string `json:"difficulty_level" gorm:"default:'beginner'"`
	PricePerPerson  int64  `json:"price_per_person" gorm:"default:0"`
	IsFeatured      bool   `json:"is_featured" gorm:"default:false"`
	IsCertified     bool   `json:"is_certified" gorm:"default:true"`
	IsDeleted       bool   `gorm:"default:false"`
}

package models

import "gorm.io/gorm"

// Interest represents an entry in the interest catalog (e.g. "music", "travel").
type Interest struct {
	gorm.Model
	Name string `gorm:"size:100;unique;not null"`
}

package venue

import "gorm.io/gorm"

// Ground is the playing venue a match is scheduled on.
type Ground struct {
	gorm.Model
	Name     string `json:"name" gorm:"not null"`
	City     string `json:"city" gorm:"index"`
	Address1 string `json:"address1,omitempty"`
}

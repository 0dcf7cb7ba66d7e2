package user

import "gorm.io/gorm"

// User is a roster member (player, umpire or scorer). Account management
// lives in a separate service; this table only mirrors the identities the
// scoring engine needs to reference.
type User struct {
	gorm.Model
	Name   string `json:"name" gorm:"not null"`
	Email  string `json:"email" gorm:"uniqueIndex"`
	Mobile string `json:"mobile" gorm:"uniqueIndex;not null"`
	Avatar string `json:"avatar,omitempty"`
}

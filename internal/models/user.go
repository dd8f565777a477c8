package models

import "gorm.io/gorm"

// User represents a registered member of the network.
type User struct {
	gorm.Model
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:255"`
	PasswordHash string `gorm:"size:255;not null"`

	Posts []Post `gorm:"foreignKey:PosterID"`
}

package models

import "gorm.io/gorm"

// Post is a piece of text authored by exactly one user.
// CreatedAt is the post's timestamp; feeds order by it.
type Post struct {
	gorm.Model
	PosterID uint   `gorm:"not null;index"`
	Content  string `gorm:"type:text;not null"`

	Poster User   `gorm:"foreignKey:PosterID"`
	Likes  []Like `gorm:"foreignKey:PostID"`
}

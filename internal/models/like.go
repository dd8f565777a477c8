package models

import "time"

// Like records that LikerID likes PostID. One row per pair.
type Like struct {
	LikerID   uint `gorm:"primaryKey"`
	PostID    uint `gorm:"primaryKey;index"`
	CreatedAt time.Time

	Liker User `gorm:"foreignKey:LikerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Post  Post `gorm:"foreignKey:PostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

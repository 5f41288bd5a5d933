package model

import (
	"time"
)

type User struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	Email          string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	Name           string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

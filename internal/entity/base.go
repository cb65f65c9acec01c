package entity

import (
	"time"

	"gorm.io/gorm"
)

type Base struct {
	ID        string         `gorm:"primarykey;size:36"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

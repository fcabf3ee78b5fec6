package models

import "time"

type ActivityLog struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint `gorm:"index"`
	User   User

	Entity   string `gorm:"size:50;not null"` // "lead", "analysis", "sync"
	EntityID uint
	Action   string `gorm:"size:50;not null"` // "create", "status_change" и т.п.
	Details  string `gorm:"type:text"`
}

package models

import "gorm.io/gorm"

// TelegramUser — привязка telegram chat_id к внутреннему пользователю.
// Проверяется на каждом входящем сообщении вебхука.
type TelegramUser struct {
	gorm.Model
	ChatID int64 `gorm:"uniqueIndex;not null"`

	UserID uint `gorm:"index;not null"`
	User   User
}

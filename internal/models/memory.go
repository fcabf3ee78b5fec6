package models

import "time"

type MemoryRole string
type MemoryChannel string

const (
	MemoryRoleUser      MemoryRole = "user"
	MemoryRoleAssistant MemoryRole = "assistant"

	ChannelWeb      MemoryChannel = "web"
	ChannelTelegram MemoryChannel = "telegram"
)

// MemoryMessage — журнал диалога с ассистентом. Только append,
// записи никогда не изменяются и не удаляются.
type MemoryMessage struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint `gorm:"index;not null"`

	Role    MemoryRole    `gorm:"type:varchar(20);not null"`
	Channel MemoryChannel `gorm:"type:varchar(20);not null"`
	Content string        `gorm:"type:text;not null"`
}

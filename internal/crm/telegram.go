package crm

import (
	"errors"

	"github.com/ShehabAlj/shehab-crm/internal/models"

	"gorm.io/gorm"
)

var ErrChatNotLinked = errors.New("telegram chat is not linked to a user")

// ResolveTelegramUser — авторизация входящего сообщения: chat_id
// обязан быть привязан к пользователю.
func (s *Store) ResolveTelegramUser(chatID int64) (uint, error) {
	var mapping models.TelegramUser
	err := s.db.Where("chat_id = ?", chatID).First(&mapping).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrChatNotLinked
	}
	if err != nil {
		return 0, err
	}
	if mapping.UserID == 0 {
		return 0, ErrChatNotLinked
	}
	return mapping.UserID, nil
}

// LinkTelegramUser привязывает чат к пользователю (повторная привязка
// перезаписывает прежнюю).
func (s *Store) LinkTelegramUser(chatID int64, userID uint) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	var existing models.TelegramUser
	err := s.db.Where("chat_id = ?", chatID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&models.TelegramUser{ChatID: chatID, UserID: userID}).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&existing).Update("user_id", userID).Error
}

package crm

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated = errors.New("caller is not authenticated")
	ErrLeadNotFound    = errors.New("lead not found")
)

// Store — слой доступа к данным CRM. Каждый метод принимает userID
// явно: привилегированные пути (telegram, sync) работают без сессии
// и обязаны сами указывать, от чьего имени идёт запрос.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB { return s.db }

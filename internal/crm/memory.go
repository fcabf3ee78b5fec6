package crm

import (
	"log"
	"strings"

	"github.com/ShehabAlj/shehab-crm/internal/models"
)

// AppendMemory пишет один ход диалога. Пустой контент пропускается.
func (s *Store) AppendMemory(userID uint, role models.MemoryRole, channel models.MemoryChannel, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	msg := models.MemoryMessage{
		UserID:  userID,
		Role:    role,
		Channel: channel,
		Content: content,
	}
	return s.db.Create(&msg).Error
}

// RecentMemory возвращает последние n записей в хронологическом порядке.
func (s *Store) RecentMemory(userID uint, n int) ([]models.MemoryMessage, error) {
	var msgs []models.MemoryMessage
	err := s.db.
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(n).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// выборка шла свежие-первыми, разворачиваем
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

type memoryWrite struct {
	userID  uint
	role    models.MemoryRole
	channel models.MemoryChannel
	content string
}

// MemoryWriter — отложенная запись памяти: ограниченная очередь и один
// воркер. Ответ пользователю никогда не ждёт записи; при переполнении
// очереди запись теряется с логом (at-most-once).
type MemoryWriter struct {
	store *Store
	queue chan memoryWrite
	done  chan struct{}
}

func NewMemoryWriter(store *Store, capacity int) *MemoryWriter {
	if capacity <= 0 {
		capacity = 64
	}
	w := &MemoryWriter{
		store: store,
		queue: make(chan memoryWrite, capacity),
		done:  make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *MemoryWriter) run() {
	for item := range w.queue {
		if err := w.store.AppendMemory(item.userID, item.role, item.channel, item.content); err != nil {
			log.Printf("memory write failed (user %d): %v", item.userID, err)
		}
	}
	close(w.done)
}

// Enqueue никогда не блокирует вызывающего.
func (w *MemoryWriter) Enqueue(userID uint, role models.MemoryRole, channel models.MemoryChannel, content string) {
	select {
	case w.queue <- memoryWrite{userID: userID, role: role, channel: channel, content: content}:
	default:
		log.Printf("memory queue full, dropping %s entry for user %d", role, userID)
	}
}

// Close дожидается записи всего, что уже в очереди.
func (w *MemoryWriter) Close() {
	close(w.queue)
	<-w.done
}

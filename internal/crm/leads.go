package crm

import (
	"errors"
	"strings"
	"time"

	"github.com/ShehabAlj/shehab-crm/internal/models"
	"github.com/ShehabAlj/shehab-crm/internal/sheets"

	"gorm.io/gorm"
)

// ListLeads возвращает лиды пользователя, свежие первыми.
func (s *Store) ListLeads(userID uint) ([]models.Lead, error) {
	var leads []models.Lead
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&leads).Error
	return leads, err
}

func (s *Store) GetLead(userID, id uint) (*models.Lead, error) {
	var lead models.Lead
	err := s.db.Where("user_id = ?", userID).First(&lead, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *Store) CreateLead(userID uint, lead models.Lead) (*models.Lead, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	lead.ClientName = strings.TrimSpace(lead.ClientName)
	if lead.ClientName == "" {
		return nil, errors.New("client name is required")
	}
	if lead.Value < 0 {
		return nil, errors.New("value must be non-negative")
	}
	if lead.HeatLevel == "" {
		lead.HeatLevel = models.HeatWarm
	}
	if lead.Status == "" {
		lead.Status = models.StatusNew
	}
	lead.UserID = userID

	if err := s.db.Create(&lead).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// LeadUpdate — частичное обновление; nil-поля не трогаются.
type LeadUpdate struct {
	ClientName  *string
	ProjectType *string
	HeatLevel   *models.HeatLevel
	Status      *models.LeadStatus
	Notes       *string
	Whatsapp    *string
	Value       *int
}

// UpdateLead применяет изменения и всегда штампует last_synced_at.
func (s *Store) UpdateLead(userID, id uint, upd LeadUpdate) error {
	changes := map[string]interface{}{
		"last_synced_at": time.Now(),
	}
	if upd.ClientName != nil {
		changes["client_name"] = *upd.ClientName
	}
	if upd.ProjectType != nil {
		changes["project_type"] = *upd.ProjectType
	}
	if upd.HeatLevel != nil {
		changes["heat_level"] = *upd.HeatLevel
	}
	if upd.Status != nil {
		changes["status"] = *upd.Status
	}
	if upd.Notes != nil {
		changes["notes"] = *upd.Notes
	}
	if upd.Whatsapp != nil {
		changes["whatsapp"] = *upd.Whatsapp
	}
	if upd.Value != nil {
		if *upd.Value < 0 {
			return errors.New("value must be non-negative")
		}
		changes["value"] = *upd.Value
	}

	res := s.db.Model(&models.Lead{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// UpdateLeadStatus — смена стадии. Токен матчится без учёта регистра,
// неизвестный токен пишется как есть (см. DESIGN.md).
func (s *Store) UpdateLeadStatus(userID, id uint, raw string) (models.LeadStatus, error) {
	status, _ := models.CanonicalStatus(raw)
	err := s.UpdateLead(userID, id, LeadUpdate{Status: &status})
	return status, err
}

// FindLeadByName — нечёткий поиск по подстроке без учёта регистра.
// При нескольких совпадениях берётся строка с меньшим id.
func (s *Store) FindLeadByName(userID uint, name string) (*models.Lead, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"

	var lead models.Lead
	err := s.db.
		Where("user_id = ? AND LOWER(client_name) LIKE ?", userID, pattern).
		Order("id asc").
		First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

// SyncFromSheet вставляет только те строки, чьё имя клиента ещё не
// встречается (точное совпадение без учёта регистра). Существующие
// лиды не обновляются — это не merge и не upsert.
func (s *Store) SyncFromSheet(userID uint, rows []sheets.Lead) (int, error) {
	if userID == 0 {
		return 0, ErrUnauthenticated
	}

	var existing []models.Lead
	if err := s.db.Select("client_name").Where("user_id = ?", userID).Find(&existing).Error; err != nil {
		return 0, err
	}
	known := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		known[strings.ToLower(l.ClientName)] = struct{}{}
	}

	inserted := 0
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.ClientName))
		if key == "" {
			continue
		}
		if _, ok := known[key]; ok {
			continue
		}
		lead := models.Lead{
			UserID:      userID,
			ClientName:  strings.TrimSpace(row.ClientName),
			ProjectType: row.ProjectType,
			HeatLevel:   row.HeatLevel,
			Status:      row.Status,
			Notes:       row.Notes,
			Value:       row.Value,
		}
		if err := s.db.Create(&lead).Error; err != nil {
			return inserted, err
		}
		known[key] = struct{}{}
		inserted++
	}
	return inserted, nil
}

package crm

import (
	"errors"
	"time"

	"github.com/ShehabAlj/shehab-crm/internal/models"

	"gorm.io/gorm"
)

func (s *Store) GetProjectDetails(userID, leadID uint) (*models.ProjectDetails, error) {
	var details models.ProjectDetails
	err := s.db.
		Preload("Milestones").
		Where("lead_id = ? AND user_id = ?", leadID, userID).
		First(&details).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// SaveProjectDetails создаёт запись при первом сохранении, дальше
// обновляет. Переданный список вех полностью заменяет прежний.
func (s *Store) SaveProjectDetails(userID, leadID uint, chatLogs *string, milestones []models.Milestone) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	if _, err := s.GetLead(userID, leadID); err != nil {
		return err
	}

	existing, err := s.GetProjectDetails(userID, leadID)
	if err != nil {
		return err
	}

	if existing == nil {
		details := models.ProjectDetails{
			LeadID: leadID,
			UserID: userID,
		}
		if chatLogs != nil {
			details.ChatLogs = *chatLogs
		}
		if err := s.db.Create(&details).Error; err != nil {
			return err
		}
	} else if chatLogs != nil {
		if err := s.db.Model(existing).Update("chat_logs", *chatLogs).Error; err != nil {
			return err
		}
	}

	if milestones != nil {
		if err := s.db.Where("lead_id = ?", leadID).Delete(&models.Milestone{}).Error; err != nil {
			return err
		}
		for i := range milestones {
			milestones[i].ID = 0
			milestones[i].LeadID = leadID
			if milestones[i].Status == "" {
				milestones[i].Status = models.MilestonePending
			}
			if err := s.db.Create(&milestones[i]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Store) GetAnalysis(userID, leadID uint) (*models.ProjectAnalysis, error) {
	var analysis models.ProjectAnalysis
	err := s.db.
		Where("lead_id = ? AND user_id = ?", leadID, userID).
		First(&analysis).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// SaveAnalysis — upsert архива анализа, всегда штампует LastUpdated.
func (s *Store) SaveAnalysis(userID, leadID uint, technicalSummary, proposalContent *string) error {
	if userID == 0 {
		return ErrUnauthenticated
	}
	if _, err := s.GetLead(userID, leadID); err != nil {
		return err
	}

	existing, err := s.GetAnalysis(userID, leadID)
	if err != nil {
		return err
	}

	now := time.Now()
	if existing == nil {
		analysis := models.ProjectAnalysis{
			LeadID:      leadID,
			UserID:      userID,
			LastUpdated: now,
		}
		if technicalSummary != nil {
			analysis.TechnicalSummary = *technicalSummary
		}
		if proposalContent != nil {
			analysis.ProposalContent = *proposalContent
		}
		return s.db.Create(&analysis).Error
	}

	changes := map[string]interface{}{"last_updated": now}
	if technicalSummary != nil {
		changes["technical_summary"] = *technicalSummary
	}
	if proposalContent != nil {
		changes["proposal_content"] = *proposalContent
	}
	return s.db.Model(existing).Updates(changes).Error
}

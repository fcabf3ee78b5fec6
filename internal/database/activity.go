package database

import "github.com/ShehabAlj/shehab-crm/internal/models"

// helper для записи в журнал действий
func RecordActivity(userID uint, entity string, entityID uint, action, details string) {
	if DB == nil {
		return
	}
	record := models.ActivityLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = DB.Create(&record).Error
}

package handlers

import (
	"net/http"
	"time"

	"github.com/ShehabAlj/shehab-crm/internal/database"
	"github.com/ShehabAlj/shehab-crm/internal/middleware"
	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/gin-gonic/gin"
)

type activityJSON struct {
	ID        uint      `json:"id"`
	Entity    string    `json:"entity"`
	EntityID  uint      `json:"entityId"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListActivity — журнал действий пользователя, свежие первыми.
func ListActivity(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	var logs []models.ActivityLog
	if err := database.DB.
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(100).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activity"})
		return
	}

	out := make([]activityJSON, 0, len(logs))
	for _, l := range logs {
		out = append(out, activityJSON{
			ID:        l.ID,
			Entity:    l.Entity,
			EntityID:  l.EntityID,
			Action:    l.Action,
			Details:   l.Details,
			CreatedAt: l.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

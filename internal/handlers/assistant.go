package handlers

import (
	"net/http"
	"strings"

	"github.com/ShehabAlj/shehab-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

type commandRequest struct {
	Command string `json:"command"`
}

// HandleCommand — чат с копайлотом. Отказ модели возвращает пустой
// reply, ошибкой считаются только пустая команда и отсутствие сессии.
func HandleCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Command) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No command provided"})
		return
	}

	userID := middleware.CurrentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	reply := assistant.HandleCommand(c.Request.Context(), userID, req.Command)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

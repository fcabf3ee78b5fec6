package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/database"
	"github.com/ShehabAlj/shehab-crm/internal/middleware"
	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/gin-gonic/gin"
)

// Наружу лиды ходят в camelCase, в БД — snake_case. Перевод живёт
// только на этой границе.
type leadJSON struct {
	ID           uint       `json:"id"`
	ClientName   string     `json:"clientName"`
	ProjectType  string     `json:"projectType"`
	HeatLevel    string     `json:"heatLevel"`
	Status       string     `json:"status"`
	Value        int        `json:"value"`
	Whatsapp     string     `json:"whatsapp,omitempty"`
	Notes        string     `json:"notes"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

func toLeadJSON(l models.Lead) leadJSON {
	return leadJSON{
		ID:           l.ID,
		ClientName:   l.ClientName,
		ProjectType:  l.ProjectType,
		HeatLevel:    string(l.HeatLevel),
		Status:       string(l.Status),
		Value:        l.Value,
		Whatsapp:     l.Whatsapp,
		Notes:        l.Notes,
		CreatedAt:    l.CreatedAt,
		LastSyncedAt: l.LastSyncedAt,
	}
}

type incomingJSON struct {
	ID          string `json:"id"`
	ClientName  string `json:"clientName"`
	ProjectType string `json:"projectType"`
	HeatLevel   string `json:"heatLevel"`
	Status      string `json:"status"`
	Value       int    `json:"value"`
	Notes       string `json:"notes"`
}

// ListLeads — основной список из БД; ?type=incoming читает внешний
// источник (заявки с сайта).
func ListLeads(c *gin.Context) {
	if c.Query("type") == "incoming" {
		listIncoming(c)
		return
	}

	userID := middleware.CurrentUserID(c)
	leads, err := store.ListLeads(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leads"})
		return
	}

	out := make([]leadJSON, 0, len(leads))
	for _, l := range leads {
		out = append(out, toLeadJSON(l))
	}
	c.JSON(http.StatusOK, out)
}

func listIncoming(c *gin.Context) {
	if sheetSource == nil {
		c.JSON(http.StatusOK, []incomingJSON{})
		return
	}

	rows, err := sheetSource.IncomingLeads(c.Request.Context())
	if err != nil {
		// внешний источник лёг — показываем пусто, не ошибку
		c.JSON(http.StatusOK, []incomingJSON{})
		return
	}

	out := make([]incomingJSON, 0, len(rows))
	for _, r := range rows {
		out = append(out, incomingJSON{
			ID:          r.ID,
			ClientName:  r.ClientName,
			ProjectType: r.ProjectType,
			HeatLevel:   string(r.HeatLevel),
			Status:      string(r.Status),
			Value:       r.Value,
			Notes:       r.Notes,
		})
	}
	c.JSON(http.StatusOK, out)
}

type createLeadRequest struct {
	ClientName  string `json:"clientName"`
	ProjectType string `json:"projectType"`
	HeatLevel   string `json:"heatLevel"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	Whatsapp    string `json:"whatsapp"`
	Value       int    `json:"value"`
}

func CreateLead(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ClientName == "" || req.ProjectType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	heat, _ := models.CanonicalHeat(req.HeatLevel)
	status, _ := models.CanonicalStatus(req.Status)
	lead := models.Lead{
		ClientName:  req.ClientName,
		ProjectType: req.ProjectType,
		HeatLevel:   heat,
		Status:      status,
		Notes:       req.Notes,
		Whatsapp:    req.Whatsapp,
		Value:       req.Value,
	}
	if req.HeatLevel == "" {
		lead.HeatLevel = models.HeatWarm
	}
	if req.Status == "" {
		lead.Status = models.StatusNew
	}

	userID := middleware.CurrentUserID(c)
	created, err := store.CreateLead(userID, lead)
	if err != nil {
		if err == crm.ErrUnauthenticated {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lead"})
		return
	}

	database.RecordActivity(userID, "lead", created.ID, "create", "Created lead: "+created.ClientName)
	c.JSON(http.StatusOK, gin.H{"success": true, "lead": toLeadJSON(*created)})
}

type updateLeadRequest struct {
	ID          uint    `json:"id"`
	ClientName  *string `json:"clientName"`
	ProjectType *string `json:"projectType"`
	HeatLevel   *string `json:"heatLevel"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	Whatsapp    *string `json:"whatsapp"`
	Value       *int    `json:"value"`
}

func UpdateLead(c *gin.Context) {
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.ID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id or updates"})
		return
	}

	upd := crm.LeadUpdate{
		ClientName:  req.ClientName,
		ProjectType: req.ProjectType,
		Notes:       req.Notes,
		Whatsapp:    req.Whatsapp,
		Value:       req.Value,
	}
	if req.HeatLevel != nil {
		heat, _ := models.CanonicalHeat(*req.HeatLevel)
		upd.HeatLevel = &heat
	}
	if req.Status != nil {
		status, _ := models.CanonicalStatus(*req.Status)
		upd.Status = &status
	}

	userID := middleware.CurrentUserID(c)
	if err := store.UpdateLead(userID, req.ID, upd); err != nil {
		if err == crm.ErrLeadNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update lead"})
		return
	}

	details := "Updated lead"
	if req.Status != nil {
		details = "Moved lead to " + *req.Status
	}
	database.RecordActivity(userID, "lead", req.ID, "update", details)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SyncLeads подтягивает внешнюю таблицу: вставляются только новые
// имена, остальное пропускается.
func SyncLeads(c *gin.Context) {
	if sheetSource == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sheet source is not configured"})
		return
	}

	rows, err := sheetSource.Leads(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		return
	}

	userID := middleware.CurrentUserID(c)
	count, err := store.SyncFromSheet(userID, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		return
	}

	database.RecordActivity(userID, "sync", 0, "sync", fmt.Sprintf("Synced %d lead(s) from sheet", count))
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}

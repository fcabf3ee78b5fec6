package handlers

import (
	"net/http"
	"strconv"

	"github.com/ShehabAlj/shehab-crm/internal/ai"
	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/database"
	"github.com/ShehabAlj/shehab-crm/internal/middleware"
	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/gin-gonic/gin"
)

type proposalRequest struct {
	ClientName  string `json:"clientName"`
	ProjectType string `json:"projectType"`
	Value       int    `json:"value"`
	Notes       string `json:"notes"`
}

// GenerateProposal — разовое КП без архивации. Проблемы апстрима
// деградируют в текст внутри proposal, а не в HTTP-ошибку.
func GenerateProposal(c *gin.Context) {
	var req proposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if aiClient == nil {
		c.JSON(http.StatusOK, gin.H{
			"proposal": "ERROR: OPENROUTER_API_KEY not found. Please configure it to generate proposals.",
		})
		return
	}

	proposal, err := aiClient.GenerateProposal(c.Request.Context(), req.ClientName, req.ProjectType, req.Value, req.Notes)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"proposal": "Error: proposal generation failed. Check server logs."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

type summarizeRequest struct {
	ChatLog string `json:"chatLog"`
}

func SummarizeChatLog(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ChatLog == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chat log is required"})
		return
	}

	if aiClient == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System Configuration Error: OPENROUTER_API_KEY is missing."})
		return
	}

	summary, err := aiClient.SummarizeChatLog(c.Request.Context(), req.ChatLog)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

type nextStepRequest struct {
	Notes string `json:"notes"`
}

func NextStep(c *gin.Context) {
	var req nextStepRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Notes == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Notes are required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": ai.NextStepAdvice(req.Notes)})
}

type archiveRequest struct {
	ProjectID        uint    `json:"projectId"`
	ProposalContent  *string `json:"proposalContent"`
	TechnicalSummary *string `json:"technicalSummary"`
}

// ArchiveAnalysis — upsert архива анализа по лиду.
func ArchiveAnalysis(c *gin.Context) {
	var req archiveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProjectID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Project ID is required"})
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := store.SaveAnalysis(userID, req.ProjectID, req.TechnicalSummary, req.ProposalContent); err != nil {
		if err == crm.ErrLeadNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive"})
		return
	}

	database.RecordActivity(userID, "analysis", req.ProjectID, "archive", "Archived project analysis")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type milestoneJSON struct {
	ID     uint   `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type detailsJSON struct {
	LeadID     uint            `json:"leadId"`
	ChatLogs   string          `json:"chatLogs"`
	Milestones []milestoneJSON `json:"milestones"`
}

func GetProjectDetails(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil || leadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead id"})
		return
	}

	userID := middleware.CurrentUserID(c)
	details, err := store.GetProjectDetails(userID, uint(leadID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch details"})
		return
	}

	out := detailsJSON{LeadID: uint(leadID), Milestones: []milestoneJSON{}}
	if details != nil {
		out.ChatLogs = details.ChatLogs
		for _, m := range details.Milestones {
			out.Milestones = append(out.Milestones, milestoneJSON{ID: m.ID, Title: m.Title, Status: string(m.Status)})
		}
	}
	c.JSON(http.StatusOK, out)
}

type saveDetailsRequest struct {
	ChatLogs   *string          `json:"chatLogs"`
	Milestones *[]milestoneJSON `json:"milestones"`
}

func SaveProjectDetails(c *gin.Context) {
	leadID, err := strconv.Atoi(c.Param("id"))
	if err != nil || leadID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lead id"})
		return
	}

	var req saveDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var milestones []models.Milestone
	if req.Milestones != nil {
		milestones = make([]models.Milestone, 0, len(*req.Milestones))
		for _, m := range *req.Milestones {
			status, _ := models.CanonicalMilestoneStatus(m.Status)
			milestones = append(milestones, models.Milestone{Title: m.Title, Status: status})
		}
	}

	userID := middleware.CurrentUserID(c)
	if err := store.SaveProjectDetails(userID, uint(leadID), req.ChatLogs, milestones); err != nil {
		if err == crm.ErrLeadNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lead not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save details"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

package server

import (
	"net/http"

	"github.com/ShehabAlj/shehab-crm/internal/config"
	"github.com/ShehabAlj/shehab-crm/internal/handlers"
	"github.com/ShehabAlj/shehab-crm/internal/middleware"
	"github.com/ShehabAlj/shehab-crm/internal/telegram"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config, gateway *telegram.Gateway) *gin.Engine {
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("crm_session", store))
	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/api/auth/register", handlers.Register)
	r.POST("/api/auth/login", handlers.Login)
	r.POST("/api/auth/logout", handlers.Logout)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth())

	// ЛИДЫ
	api.GET("/leads", handlers.ListLeads)
	api.POST("/leads", handlers.CreateLead)
	api.PATCH("/leads", handlers.UpdateLead)
	api.POST("/sync", handlers.SyncLeads)

	// КОПАЙЛОТ
	api.POST("/assistant", handlers.HandleCommand)
	api.POST("/proposal", handlers.GenerateProposal)
	api.POST("/summarize", handlers.SummarizeChatLog)
	api.POST("/next-step", handlers.NextStep)

	// ПРОЕКТЫ
	api.POST("/project/archive", handlers.ArchiveAnalysis)
	api.GET("/projects/:id/details", handlers.GetProjectDetails)
	api.PUT("/projects/:id/details", handlers.SaveProjectDetails)

	// ФИНАНСЫ
	api.GET("/financials", handlers.FinancialReport)
	api.GET("/financials/chart", handlers.FinancialChart)

	// ЖУРНАЛ
	api.GET("/activity", handlers.ListActivity)

	// TELEGRAM (авторизация по chat_id внутри шлюза, сессия не нужна)
	r.POST("/telegram/webhook", gateway.HandleWebhook)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}

package telegram

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/database"
	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `👋 *Copilot Online*

I am connected to your CRM. Commands:

• /leads - View Hot/Active leads
• /move [client] [status] - Update pipeline
• /analyze [client] - AI Strategic Analysis`

const deniedText = `🚫 *Access Denied*

Your Telegram account is not linked to the CRM.`

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Gateway — вебхук телеграм-бота. Команды ходят в данные напрямую,
// без модели. Вебхук всегда подтверждается успехом, иначе телеграм
// будет ретраить сообщение, которое мы сами же отклонили.
type Gateway struct {
	bot   sender // nil, если токен не задан: все отправки — no-op
	store *crm.Store
}

func NewGateway(token string, store *crm.Store) *Gateway {
	g := &Gateway{store: store}
	if token == "" {
		return g
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("telegram: bot init failed, replies disabled: %v", err)
		return g
	}
	g.bot = bot
	log.Printf("telegram: authorized as @%s", bot.Self.UserName)
	return g
}

func (g *Gateway) HandleWebhook(c *gin.Context) {
	var update tgbotapi.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Printf("telegram: bad update payload: %v", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	if update.Message == nil || update.Message.Chat == nil || update.Message.Text == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	chatID := update.Message.Chat.ID
	text := update.Message.Text

	userID, err := g.store.ResolveTelegramUser(chatID)
	if err != nil {
		log.Printf("telegram: unauthorized chat %d: %v", chatID, err)
		g.sendText(chatID, deniedText)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	// сначала подтверждаем вебхук, команда обрабатывается в фоне
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("telegram: command panic: %v", r)
			}
		}()
		g.process(userID, chatID, text)
	}()

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (g *Gateway) process(userID uint, chatID int64, text string) {
	switch {
	case strings.HasPrefix(text, "/start"):
		g.sendText(chatID, helpText)

	case strings.HasPrefix(text, "/leads"):
		g.handleLeads(userID, chatID)

	case strings.HasPrefix(text, "/move"):
		g.handleMove(userID, chatID, text)

	case strings.HasPrefix(text, "/analyze"):
		g.sendText(chatID, "🧠 *Thinking...* Analysis triggered.")

	default:
		// незнакомый текст молча игнорируется
	}
}

func (g *Gateway) handleLeads(userID uint, chatID int64) {
	leads, err := g.store.ListLeads(userID)
	if err != nil {
		log.Printf("telegram: list leads failed: %v", err)
		g.sendText(chatID, "❌ Database Error.")
		return
	}
	if len(leads) == 0 {
		g.sendText(chatID, "📭 Your pipeline is empty.")
		return
	}

	var hot []models.Lead
	for _, l := range leads {
		if l.HeatLevel == models.HeatHot || l.Status == models.StatusWorking {
			hot = append(hot, l)
		}
	}
	if len(hot) == 0 {
		g.sendText(chatID, "📭 No priority leads found (Hot/Working).")
		return
	}

	var b strings.Builder
	b.WriteString("🔥 *Priority Pipeline*\n\n")
	for _, l := range hot {
		fmt.Fprintf(&b, "• *%s* (%s)\n   Status: %s | Value: OMR %d\n\n", l.ClientName, l.ProjectType, l.Status, l.Value)
	}
	g.sendText(chatID, b.String())
}

func (g *Gateway) handleMove(userID uint, chatID int64, text string) {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		g.sendText(chatID, "⚠️ Usage: `/move [Client Name] [Status]`\nExample: `/move Lava Done`")
		return
	}

	clientQuery := strings.ToLower(parts[1])
	statusQuery := parts[2]

	lead, err := g.store.FindLeadByName(userID, clientQuery)
	if err != nil {
		g.sendText(chatID, fmt.Sprintf("❌ Client matching \"%s\" not found.", clientQuery))
		return
	}

	// неизвестный статус намеренно пишется как есть
	status, err := g.store.UpdateLeadStatus(userID, lead.ID, statusQuery)
	if err != nil {
		log.Printf("telegram: move failed: %v", err)
		g.sendText(chatID, "❌ Database Error.")
		return
	}

	database.RecordActivity(userID, "lead", lead.ID, "status_change",
		fmt.Sprintf("Telegram moved %s to %s", lead.ClientName, status))
	g.sendText(chatID, fmt.Sprintf("✅ *%s* moved to *%s*.", lead.ClientName, status))
}

// единственная точка отправки; без бота — no-op
func (g *Gateway) sendText(chatID int64, text string) {
	if g.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := g.bot.Send(msg); err != nil {
		log.Printf("telegram: send failed: %v", err)
	}
}

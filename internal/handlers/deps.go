package handlers

import (
	"github.com/ShehabAlj/shehab-crm/internal/ai"
	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/sheets"
)

// Зависимости хендлеров, заполняются один раз при старте.
var (
	store       *crm.Store
	sheetSource sheets.Source // nil, если таблица не настроена
	assistant   *ai.Assistant
	aiClient    *ai.Client // nil, если нет ключа API
	revenueGoal int
)

func Setup(s *crm.Store, src sheets.Source, a *ai.Assistant, client *ai.Client, goal int) {
	store = s
	sheetSource = src
	assistant = a
	aiClient = client
	revenueGoal = goal
}

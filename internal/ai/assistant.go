package ai

import (
	"context"
	"log"

	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/models"
)

// сколько ходов истории уходит в запрос к модели
const memoryWindow = 15

// Assistant — интерпретатор свободных команд: собирает контекст,
// спрашивает модель, прогоняет ответ через Dispatcher и пишет оба хода
// в память не дожидаясь записи.
type Assistant struct {
	store      *crm.Store
	client     *Client
	memory     *crm.MemoryWriter
	dispatcher *Dispatcher
}

func NewAssistant(store *crm.Store, client *Client, memory *crm.MemoryWriter, goal int) *Assistant {
	return &Assistant{
		store:      store,
		client:     client,
		memory:     memory,
		dispatcher: NewDispatcher(store, client, goal),
	}
}

// HandleCommand возвращает текст ответа. Отказ модели деградирует до
// пустого ответа, а не до ошибки — падать тут нельзя.
func (a *Assistant) HandleCommand(ctx context.Context, userID uint, command string) string {
	leads, err := a.store.ListLeads(userID)
	if err != nil {
		log.Printf("assistant: list leads failed: %v", err)
	}

	focused := ""
	if detected := DetectClient(command, leads); detected != nil {
		if dc, err := a.store.DeepClientContext(userID, detected.ID); err == nil {
			focused = FocusedContext(dc)
		} else {
			log.Printf("assistant: deep context for lead %d failed: %v", detected.ID, err)
		}
	}

	memory, err := a.store.RecentMemory(userID, memoryWindow)
	if err != nil {
		log.Printf("assistant: recent memory failed: %v", err)
	}

	system := BuildSystemPrompt(
		PipelineSummary(leads),
		focused,
		RecentTopic(memory),
		a.dispatcher.goal,
	)

	reply, err := a.client.Chat(ctx, system, memory, command)
	if err != nil {
		log.Printf("assistant: upstream call failed: %v", err)
		reply = ""
	}

	// память — после получения ответа, мимо пути ответа
	if a.memory != nil {
		a.memory.Enqueue(userID, models.MemoryRoleUser, models.ChannelWeb, command)
		a.memory.Enqueue(userID, models.MemoryRoleAssistant, models.ChannelWeb, reply)
	}

	if reply == "" {
		return ""
	}
	return a.dispatcher.Dispatch(ctx, userID, reply)
}

package ai

import (
	"context"
	"errors"

	"github.com/ShehabAlj/shehab-crm/internal/config"
	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var ErrNotConfigured = errors.New("ai client is not configured")

// Client — обёртка над chat-completions API (OpenRouter, совместим с
// OpenAI). Модель фиксируется в конфиге.
type Client struct {
	llm llms.Model
}

func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.AIAPIKey == "" {
		return nil, ErrNotConfigured
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.AIBaseURL),
		openai.WithToken(cfg.AIAPIKey),
		openai.WithModel(cfg.AIModel),
	)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm}, nil
}

// Chat — системный промпт + история диалога чередующимися ходами +
// новая команда. Пустой ответ модели не считается ошибкой.
func (c *Client) Chat(ctx context.Context, system string, history []models.MemoryMessage, command string) (string, error) {
	if c == nil || c.llm == nil {
		return "", ErrNotConfigured
	}

	msgs := make([]llms.MessageContent, 0, len(history)+2)
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, system))
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		if m.Role == models.MemoryRoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, m.Content))
	}
	msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, command))

	resp, err := c.llm.GenerateContent(ctx, msgs)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

// Complete — одноразовый запрос без истории.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if c == nil || c.llm == nil {
		return "", ErrNotConfigured
	}

	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, system),
		llms.TextParts(llms.ChatMessageTypeHuman, user),
	}
	resp, err := c.llm.GenerateContent(ctx, msgs)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}

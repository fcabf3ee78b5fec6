package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

func TestHandleCommandConversational(t *testing.T) {
	store := newTestStore(t)
	memory := crm.NewMemoryWriter(store, 8)

	stub := &stubModel{reply: "The architecture looks solid."}
	a := NewAssistant(store, newStubClient(stub), memory, 2000)

	reply := a.HandleCommand(context.Background(), 1, "how is the pipeline?")
	assert.Equal(t, "The architecture looks solid.", reply)

	memory.Close()
	msgs, err := store.RecentMemory(1, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.MemoryRoleUser, msgs[0].Role)
	assert.Equal(t, "how is the pipeline?", msgs[0].Content)
	assert.Equal(t, models.MemoryRoleAssistant, msgs[1].Role)
	assert.Equal(t, "The architecture looks solid.", msgs[1].Content)
}

func TestHandleCommandUpstreamFailure(t *testing.T) {
	store := newTestStore(t)
	memory := crm.NewMemoryWriter(store, 8)

	stub := &stubModel{err: errors.New("model overloaded")}
	a := NewAssistant(store, newStubClient(stub), memory, 2000)

	// отказ апстрима — пустой ответ, не ошибка
	reply := a.HandleCommand(context.Background(), 1, "hello")
	assert.Equal(t, "", reply)

	memory.Close()
	msgs, err := store.RecentMemory(1, 10)
	require.NoError(t, err)
	// команда сохранена, пустой ответ ассистента пропущен
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MemoryRoleUser, msgs[0].Role)
}

func TestHandleCommandExecutesToolCall(t *testing.T) {
	store := newTestStore(t)
	memory := crm.NewMemoryWriter(store, 8)

	lead, err := store.CreateLead(1, models.Lead{ClientName: "Lava Cafe", Status: models.StatusWorking})
	require.NoError(t, err)

	stub := &stubModel{reply: `{"tool":"update_status","client":"Lava","status":"Done"}`}
	a := NewAssistant(store, newStubClient(stub), memory, 2000)

	reply := a.HandleCommand(context.Background(), 1, "move Lava Cafe to Done")
	assert.Equal(t, "[STATUS] Updated status to Done", reply)

	got, err := store.GetLead(1, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, got.Status)
	memory.Close()
}

func TestHandleCommandSendsContext(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateLead(1, models.Lead{ClientName: "Lava Cafe", Status: models.StatusWorking})
	require.NoError(t, err)
	require.NoError(t, store.AppendMemory(1, models.MemoryRoleUser, models.ChannelWeb, "earlier question"))

	stub := &stubModel{reply: "ok"}
	a := NewAssistant(store, newStubClient(stub), nil, 2000)

	a.HandleCommand(context.Background(), 1, "status of lava cafe?")

	require.NotEmpty(t, stub.lastMessages)
	system := stub.lastMessages[0]
	require.Equal(t, llms.ChatMessageTypeSystem, system.Role)

	text, ok := system.Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "- Lava Cafe (Working)")
	assert.Contains(t, text.Text, "DEEP DIVE CONTEXT FOR: Lava Cafe")
	assert.Contains(t, text.Text, "[USER]: earlier question")

	// история + команда чередующимися ходами после системного промпта
	require.Len(t, stub.lastMessages, 3)
	assert.Equal(t, llms.ChatMessageTypeHuman, stub.lastMessages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, stub.lastMessages[2].Role)
}

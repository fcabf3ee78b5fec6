package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/database"
)

// Модель может вернуть JSON-директивы внутри обычного текста: сначала
// ищем массив, потом одиночный объект (жадно, от первой до последней
// скобки — как и markdown-обёртку, модель расставляет их небрежно).
var (
	jsonArrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// Dispatcher выполняет инструментальные директивы из ответа модели.
type Dispatcher struct {
	store  *crm.Store
	client *Client
	goal   int
}

func NewDispatcher(store *crm.Store, client *Client, goal int) *Dispatcher {
	return &Dispatcher{store: store, client: client, goal: goal}
}

type toolEnvelope struct {
	Tool string `json:"tool"`
}

type updateStatusCall struct {
	Client string `json:"client"`
	Status string `json:"status"`
}

type generateProposalCall struct {
	Client string `json:"client"`
}

// Dispatch извлекает директивы из сырого ответа и выполняет их по
// порядку. Если JSON не нашёлся или не распарсился — возвращается
// исходный текст без ошибки (обычный разговорный ответ).
func (d *Dispatcher) Dispatch(ctx context.Context, userID uint, raw string) string {
	match := jsonArrayRe.FindString(raw)
	if match == "" {
		match = jsonObjectRe.FindString(raw)
	}
	if match == "" {
		return raw
	}

	clean := strings.ReplaceAll(match, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	calls, ok := decodeToolCalls(clean)
	if !ok {
		return raw
	}

	results := make([]string, 0, len(calls))
	for _, entry := range calls {
		var env toolEnvelope
		if err := json.Unmarshal(entry, &env); err != nil {
			continue
		}
		switch env.Tool {
		case "update_status":
			results = append(results, d.updateStatus(userID, entry))
		case "generate_proposal":
			results = append(results, d.generateProposal(ctx, userID, entry))
		case "financial_report":
			results = append(results, d.financialReport(userID))
		default:
			// неизвестный инструмент молча пропускается
		}
	}
	return strings.Join(results, "\n")
}

// decodeToolCalls нормализует значение к массиву: одиночный объект
// оборачивается.
func decodeToolCalls(clean string) ([]json.RawMessage, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal([]byte(clean), &arr); err == nil {
		return arr, true
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(clean), &obj); err == nil {
		return []json.RawMessage{json.RawMessage(clean)}, true
	}
	return nil, false
}

func (d *Dispatcher) updateStatus(userID uint, entry json.RawMessage) string {
	var call updateStatusCall
	if err := json.Unmarshal(entry, &call); err != nil {
		return fmt.Sprintf("[ERROR] Malformed update_status call: %v", err)
	}

	lead, err := d.store.FindLeadByName(userID, call.Client)
	if err != nil {
		return fmt.Sprintf("[ERROR] Client '%s' not found.", call.Client)
	}

	status, err := d.store.UpdateLeadStatus(userID, lead.ID, call.Status)
	if err != nil {
		return fmt.Sprintf("[ERROR] Failed to update status: %v", err)
	}
	database.RecordActivity(userID, "lead", lead.ID, "status_change",
		fmt.Sprintf("Copilot moved %s to %s", lead.ClientName, status))
	return fmt.Sprintf("[STATUS] Updated status to %s", status)
}

func (d *Dispatcher) generateProposal(ctx context.Context, userID uint, entry json.RawMessage) string {
	var call generateProposalCall
	if err := json.Unmarshal(entry, &call); err != nil {
		return fmt.Sprintf("[ERROR] Malformed generate_proposal call: %v", err)
	}

	lead, err := d.store.FindLeadByName(userID, call.Client)
	if err != nil {
		return fmt.Sprintf("[ERROR] Client '%s' not found.", call.Client)
	}

	proposal, err := d.client.GenerateProposal(ctx, lead.ClientName, lead.ProjectType, lead.Value, lead.Notes)
	if err != nil {
		return fmt.Sprintf("[ERROR] Proposal generation failed: %v", err)
	}
	if err := d.store.SaveAnalysis(userID, lead.ID, nil, &proposal); err != nil {
		return fmt.Sprintf("[ERROR] Proposal archive failed: %v", err)
	}
	database.RecordActivity(userID, "analysis", lead.ID, "proposal",
		"Copilot generated a proposal for "+lead.ClientName)
	return "[PROPOSAL] Proposal generated and archived to the intelligence folder."
}

func (d *Dispatcher) financialReport(userID uint) string {
	report, err := d.store.FinancialReport(userID, d.goal)
	if err != nil {
		return fmt.Sprintf("[ERROR] Financial report failed: %v", err)
	}
	return "[FINANCE] " + report.Render()
}

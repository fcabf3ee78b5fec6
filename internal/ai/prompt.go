package ai

import (
	"fmt"
	"strings"

	"github.com/ShehabAlj/shehab-crm/internal/crm"
	"github.com/ShehabAlj/shehab-crm/internal/models"
)

const proposalExcerptLen = 200

// PipelineSummary — по строке на лид, глобальный контекст промпта.
func PipelineSummary(leads []models.Lead) string {
	if len(leads) == 0 {
		return "No leads."
	}
	var b strings.Builder
	for _, l := range leads {
		fmt.Fprintf(&b, "- %s (%s)\n", l.ClientName, l.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}

// DetectClient ищет упоминание известного клиента в тексте команды
// (подстрока, без учёта регистра).
func DetectClient(command string, leads []models.Lead) *models.Lead {
	lower := strings.ToLower(command)
	for i := range leads {
		if leads[i].ClientName == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(leads[i].ClientName)) {
			return &leads[i]
		}
	}
	return nil
}

// FocusedContext — «глубокий» блок по одному клиенту.
func FocusedContext(dc *crm.DeepContext) string {
	if dc == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*** DEEP DIVE CONTEXT FOR: %s ***\n", dc.Client)
	fmt.Fprintf(&b, "Status: %s (Inactive for %d days)\n", dc.Status, dc.DaysInactive)
	if dc.Stagnant {
		b.WriteString("⚠️ STAGNATION WARNING: Project in 'Working' for >7 days without updates.\n")
	}
	b.WriteString("\nLATEST TECHNICAL ANALYSIS:\n")
	b.WriteString(dc.TechnicalSummary)
	b.WriteString("\n\nCOMMUNICATION LOGS:\n")
	b.WriteString(dc.RecentChatLogs)
	b.WriteString("\n\nLATEST PROPOSAL DRAFT:\n")
	b.WriteString(excerpt(dc.LatestProposal, proposalExcerptLen))
	return b.String()
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// RecentTopic — последние 3 хода памяти строками вида "[USER]: ...".
func RecentTopic(memory []models.MemoryMessage) string {
	if len(memory) == 0 {
		return "No prior conversation context."
	}
	start := len(memory) - 3
	if start < 0 {
		start = 0
	}
	lines := make([]string, 0, 3)
	for _, m := range memory[start:] {
		lines = append(lines, fmt.Sprintf("[%s]: %s", strings.ToUpper(string(m.Role)), m.Content))
	}
	return strings.Join(lines, "\n")
}

// BuildSystemPrompt собирает системный промпт копайлота: место в
// пайплайне, фокусный клиент, свежая память, инструкции и грамматика
// инструментов.
func BuildSystemPrompt(globalSummary, focusedContext, recentTopic string, goal int) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are the CRM copilot, a high-level Technical Architect & Chief of Staff.
Your ultimate goal is to maximize technical ROI, project velocity, and hit the OMR %d revenue target.
Do NOT offer generic project management advice. Focus strictly on technical execution, system architecture, and unblocking development.

GLOBAL PIPELINE:
%s

`, goal, globalSummary)

	if focusedContext != "" {
		b.WriteString(focusedContext)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, `RECENT CONTEXT & MEMORY:
%s

INSTRUCTIONS - "CONTEXT-FIRST" THINKING:
1. If the user greets you (e.g., 'Hi', 'Hello'), DO NOT reply with a generic greeting. Look at the RECENT CONTEXT above. If there is an ongoing topic, say: "Welcome back. We were last discussing [Topic Name]. Are we ready to push that forward?"
2. Pull specific Technical Requirements, Milestones, or Proposals from the DEEP DIVE CONTEXT. Avoid generic phrases like "Analyzing Project...". Be specific with the data.
3. If the project is STAGNANT, proactively suggest an architectural or technical intervention to unblock it.
4. Be concise, high-density, and executive.
5. If you do NOT have enough technical data to be specific, DO NOT invent a generic plan. Instead, ask a targeted, high-level technical question to gather the missing requirements.

AVAILABLE TOOLS (Output JSON ONLY for actions):

1. MOVE CARD: { "tool": "update_status", "client": "Name", "status": "New|In Talk|Working|Testing|Done" }
2. GENERATE PROPOSAL: { "tool": "generate_proposal", "client": "Name" }
3. FINANCIAL REPORT: { "tool": "financial_report" }
`, recentTopic)

	return b.String()
}

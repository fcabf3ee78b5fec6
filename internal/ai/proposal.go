package ai

import (
	"context"
	"fmt"
	"strings"
)

const proposalSystemPrompt = "You are an elite Digital Strategist. Output clean, monospaced text suitable for a terminal window. Use aggressive, high-performance business language."

// GenerateProposal — КП для клиента по данным лида.
func (c *Client) GenerateProposal(ctx context.Context, clientName, projectType string, value int, notes string) (string, error) {
	prompt := fmt.Sprintf(`ACT AS: Senior Technical Architect & Strategy Consultant.
CONTEXT: You are drafting a high-stakes executive proposal for %s.
PROJECT: %s
VALUE: %d OMR
NOTES: %s

OBJECTIVE: Write a persuasive, executive-level proposal. Avoid generic academic or "supportive" language. Be authoritative, innovative, and commercial.

REQUIRED STRUCTURE:
### EXECUTIVE SUMMARY
(Focus on the "Why". Business impact first.)

### STRATEGIC TECHNICAL ARCHITECTURE
(Focus on the "How". Technical pillars: Infrastructure, Performance, Security.)

### INVESTMENT & SCALABILITY PHASE
(Focus on Value. Reference the %d OMR investment as a "Growth Engine".)

### IMMEDIATE ACTION PLAN
(The "What Next". Clear next steps.)

FORMAT: Plain text, bullet points, concise (under 400 words).`,
		clientName, projectType, value, notes, value)

	reply, err := c.Complete(ctx, proposalSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	if reply == "" {
		return "", fmt.Errorf("model returned no content")
	}
	return reply, nil
}

const summarizeSystemPrompt = `You are a Senior Systems Architect. Analyze the following project notes/chat log. Output exactly 3 lines in this format:

EXECUTIVE SUMMARY: (Max 2 sentences)
TECHNICAL REQUIREMENTS: (Comma separated list)
NEXT HIGH-ROI STEP: (One clear action)`

// SummarizeChatLog сводит переписку по проекту к трём строкам.
func (c *Client) SummarizeChatLog(ctx context.Context, chatLog string) ([]string, error) {
	reply, err := c.Complete(ctx, summarizeSystemPrompt, chatLog)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// NextStepAdvice — заготовленный совет по заметкам (AI тут пока не
// подключён).
func NextStepAdvice(notes string) string {
	head := notes
	if runes := []rune(notes); len(runes) > 30 {
		head = string(runes[:30])
	}
	return fmt.Sprintf(`Based on the notes "%s...", here is the recommended next step:

1. **Immediate Action**: Send a follow-up email re-iterating the value proposition mentioned in the notes.
2. **Strategy**: Focus on the specific pain point identified.
3. **Closing**: Propose a quick 10-min call to finalize details.`, head)
}

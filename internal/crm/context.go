package crm

import (
	"math"
	"time"

	"github.com/ShehabAlj/shehab-crm/internal/models"
)

// StagnationDays — лид в Working без движения дольше этого срока
// считается застрявшим.
const StagnationDays = 7

// DeepContext — собранный контекст одного клиента для фокусного
// промпта: стадия, простой, последний анализ и черновик КП.
type DeepContext struct {
	Client       string
	Status       models.LeadStatus
	Value        int
	DaysInactive int
	Stagnant     bool

	TechnicalSummary string
	LatestProposal   string
	RecentChatLogs   string
	Milestones       []models.Milestone
}

func (s *Store) DeepClientContext(userID, leadID uint) (*DeepContext, error) {
	lead, err := s.GetLead(userID, leadID)
	if err != nil {
		return nil, err
	}

	ctx := &DeepContext{
		Client: lead.ClientName,
		Status: lead.Status,
		Value:  lead.Value,

		TechnicalSummary: "No technical analysis archived.",
		LatestProposal:   "No proposal drafted.",
		RecentChatLogs:   "No recent team notes.",
	}

	lastUpdate := lead.UpdatedAt
	if lastUpdate.IsZero() {
		lastUpdate = lead.CreatedAt
	}
	ctx.DaysInactive = daysSince(lastUpdate, time.Now())
	ctx.Stagnant = lead.Status == models.StatusWorking && ctx.DaysInactive > StagnationDays

	if analysis, err := s.GetAnalysis(userID, leadID); err == nil && analysis != nil {
		if analysis.TechnicalSummary != "" {
			ctx.TechnicalSummary = analysis.TechnicalSummary
		}
		if analysis.ProposalContent != "" {
			ctx.LatestProposal = analysis.ProposalContent
		}
	}
	if details, err := s.GetProjectDetails(userID, leadID); err == nil && details != nil {
		if details.ChatLogs != "" {
			ctx.RecentChatLogs = details.ChatLogs
		}
		ctx.Milestones = details.Milestones
	}

	return ctx, nil
}

// округление вверх, минимум 0
func daysSince(t, now time.Time) int {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours() / 24))
}

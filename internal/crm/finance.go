package crm

import (
	"fmt"
	"math"

	"github.com/ShehabAlj/shehab-crm/internal/models"
)

type FinanceReport struct {
	TotalValue      int
	ActiveProjects  int
	Goal            int
	ProgressPercent int

	ByStatus map[models.LeadStatus]int // суммарная стоимость по стадиям
}

// FinancialReport агрегирует пайплайн пользователя: общая стоимость,
// процент от цели, количество активных проектов.
func (s *Store) FinancialReport(userID uint, goal int) (*FinanceReport, error) {
	leads, err := s.ListLeads(userID)
	if err != nil {
		return nil, err
	}

	report := &FinanceReport{
		Goal:     goal,
		ByStatus: make(map[models.LeadStatus]int),
	}
	for _, l := range leads {
		report.TotalValue += l.Value
		report.ByStatus[l.Status] += l.Value
		if l.Status == models.StatusWorking {
			report.ActiveProjects++
		}
	}
	if goal > 0 {
		report.ProgressPercent = int(math.Round(float64(report.TotalValue) / float64(goal) * 100))
	}
	return report, nil
}

func (r *FinanceReport) Render() string {
	return fmt.Sprintf(
		"Pipeline report: total value %d OMR, %d%% of the %d OMR goal, %d active project(s).",
		r.TotalValue, r.ProgressPercent, r.Goal, r.ActiveProjects,
	)
}

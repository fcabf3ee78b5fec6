package crm

import (
	"testing"

	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinancialReport(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateLead(1, models.Lead{ClientName: "A", Value: 1500, Status: models.StatusWorking})
	require.NoError(t, err)
	_, err = s.CreateLead(1, models.Lead{ClientName: "B", Value: 5000, Status: models.StatusInTalk})
	require.NoError(t, err)
	_, err = s.CreateLead(1, models.Lead{ClientName: "C", Value: 800, Status: models.StatusDone})
	require.NoError(t, err)
	// чужой лид в отчёт не попадает
	_, err = s.CreateLead(2, models.Lead{ClientName: "D", Value: 9999})
	require.NoError(t, err)

	report, err := s.FinancialReport(1, 2000)
	require.NoError(t, err)

	assert.Equal(t, 7300, report.TotalValue)
	assert.Equal(t, 365, report.ProgressPercent) // 7300/2000
	assert.Equal(t, 1, report.ActiveProjects)
	assert.Equal(t, 1500, report.ByStatus[models.StatusWorking])
	assert.Equal(t, 5000, report.ByStatus[models.StatusInTalk])

	rendered := report.Render()
	assert.Contains(t, rendered, "7300 OMR")
	assert.Contains(t, rendered, "365%")
	assert.Contains(t, rendered, "2000 OMR goal")
}

func TestFinancialReportEmptyPipeline(t *testing.T) {
	s := newTestStore(t)

	report, err := s.FinancialReport(1, 2000)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalValue)
	assert.Equal(t, 0, report.ProgressPercent)
	assert.Equal(t, 0, report.ActiveProjects)
}

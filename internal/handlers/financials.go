package handlers

import (
	"bytes"
	"net/http"

	"github.com/ShehabAlj/shehab-crm/internal/middleware"
	"github.com/ShehabAlj/shehab-crm/internal/models"

	"github.com/gin-gonic/gin"
	chart "github.com/wcharczuk/go-chart/v2"
)

// FinancialReport — сводка пайплайна для дашборда.
func FinancialReport(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	report, err := store.FinancialReport(userID, revenueGoal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	byStatus := make(map[string]int, len(report.ByStatus))
	for status, value := range report.ByStatus {
		byStatus[string(status)] = value
	}
	c.JSON(http.StatusOK, gin.H{
		"totalValue":      report.TotalValue,
		"activeProjects":  report.ActiveProjects,
		"goal":            report.Goal,
		"progressPercent": report.ProgressPercent,
		"byStatus":        byStatus,
	})
}

// FinancialChart рисует PNG: стоимость пайплайна по стадиям.
func FinancialChart(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	report, err := store.FinancialReport(userID, revenueGoal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	bars := make([]chart.Value, 0, len(models.ValidStatuses))
	maxVal := 0
	for _, status := range models.ValidStatuses {
		v := report.ByStatus[status]
		if v > maxVal {
			maxVal = v
		}
		bars = append(bars, chart.Value{Value: float64(v), Label: string(status)})
	}
	// избежать invalid data range при пустом пайплайне
	yMax := float64(maxVal)
	if yMax <= 0 {
		yMax = 1
	}

	graph := chart.BarChart{
		Width:    900,
		Height:   500,
		BarWidth: 56,
		Background: chart.Style{Padding: chart.Box{
			Top:    50,
			Left:   16,
			Right:  16,
			Bottom: 0,
		}},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: yMax}},
		Bars:  bars,
	}

	buf := bytes.NewBuffer(nil)
	if err := graph.Render(chart.PNG, buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render chart"})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

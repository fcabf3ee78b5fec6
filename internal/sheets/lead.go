package sheets

import "github.com/ShehabAlj/shehab-crm/internal/models"

// Lead — строка внешнего источника (таблица с формой сайта).
type Lead struct {
	ID          string
	ClientName  string
	ProjectType string
	HeatLevel   models.HeatLevel
	Status      models.LeadStatus
	Notes       string
	Value       int
}

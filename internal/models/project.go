package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "Pending"
	MilestoneInProgress MilestoneStatus = "In Progress"
	MilestoneDone       MilestoneStatus = "Done"
)

var validMilestoneStatuses = []MilestoneStatus{MilestonePending, MilestoneInProgress, MilestoneDone}

func CanonicalMilestoneStatus(raw string) (MilestoneStatus, bool) {
	for _, s := range validMilestoneStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return MilestonePending, false
}

// ProjectDetails — рабочие материалы по лиду (1:1), создаётся лениво
// при первом сохранении.
type ProjectDetails struct {
	gorm.Model
	LeadID uint `gorm:"uniqueIndex;not null"`
	UserID uint `gorm:"index;not null"`

	ChatLogs string `gorm:"type:text"`

	Milestones []Milestone `gorm:"foreignKey:LeadID;references:LeadID"`
}

type Milestone struct {
	gorm.Model
	LeadID uint `gorm:"index;not null"`

	Title  string          `gorm:"size:255;not null"`
	Status MilestoneStatus `gorm:"type:varchar(20);not null"`
}

// ProjectAnalysis — архив последнего AI-анализа и черновика КП по лиду (1:1).
type ProjectAnalysis struct {
	gorm.Model
	LeadID uint `gorm:"uniqueIndex;not null"`
	UserID uint `gorm:"index;not null"`

	TechnicalSummary string `gorm:"type:text"`
	ProposalContent  string `gorm:"type:text"`

	LastUpdated time.Time
}

package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type HeatLevel string
type LeadStatus string

const (
	HeatCold HeatLevel = "Cold"
	HeatWarm HeatLevel = "Warm"
	HeatHot  HeatLevel = "Hot"

	StatusNew     LeadStatus = "New"
	StatusInTalk  LeadStatus = "In Talk"
	StatusWorking LeadStatus = "Working"
	StatusTesting LeadStatus = "Testing"
	StatusDone    LeadStatus = "Done"
)

// ValidStatuses — порядок колонок канбана
var ValidStatuses = []LeadStatus{StatusNew, StatusInTalk, StatusWorking, StatusTesting, StatusDone}

var ValidHeatLevels = []HeatLevel{HeatCold, HeatWarm, HeatHot}

// CanonicalStatus matches a raw token against the known statuses
// case-insensitively. An unknown token is returned as-is with ok=false;
// callers that write it through anyway do so on purpose.
func CanonicalStatus(raw string) (LeadStatus, bool) {
	for _, s := range ValidStatuses {
		if strings.EqualFold(string(s), raw) {
			return s, true
		}
	}
	return LeadStatus(raw), false
}

func CanonicalHeat(raw string) (HeatLevel, bool) {
	for _, h := range ValidHeatLevels {
		if strings.EqualFold(string(h), raw) {
			return h, true
		}
	}
	return HeatLevel(raw), false
}

type Lead struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`
	User   User

	ClientName  string     `gorm:"size:255;not null"`
	ProjectType string     `gorm:"size:100"`
	HeatLevel   HeatLevel  `gorm:"type:varchar(20);not null"`
	Status      LeadStatus `gorm:"type:varchar(20);not null"`
	Value       int        `gorm:"not null;default:0"` // OMR, целые
	Whatsapp    string     `gorm:"size:50"`
	Notes       string     `gorm:"type:text"`

	LastSyncedAt *time.Time
}

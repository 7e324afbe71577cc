package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EstimateStatus string

const (
	StatusTemplate EstimateStatus = "template"
	StatusDraft    EstimateStatus = "draft"
	StatusActive   EstimateStatus = "active"
	StatusArchived EstimateStatus = "archived"
)

// statusTransitions is the closed set of allowed status moves. A template
// never changes status in place; it only produces drafts by being cloned.
var statusTransitions = map[EstimateStatus][]EstimateStatus{
	StatusDraft:  {StatusActive, StatusArchived},
	StatusActive: {StatusArchived},
}

func (s EstimateStatus) Valid() bool {
	switch s {
	case StatusTemplate, StatusDraft, StatusActive, StatusArchived:
		return true
	default:
		return false
	}
}

func (s EstimateStatus) CanTransitionTo(next EstimateStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

func (c Complexity) Valid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	default:
		return false
	}
}

type ProjectEstimate struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                  string    `gorm:"not null"`
	Description           string
	Currency              string            `gorm:"type:varchar(3);default:'USD'"`
	ContingencyPercentage float64           `gorm:"default:0"`
	Status                EstimateStatus    `gorm:"type:varchar(50);default:'draft';index"`
	Phases                []Phase           `gorm:"foreignKey:ProjectEstimateID;constraint:OnDelete:CASCADE"`
	RateOverrides         []RateOverride    `gorm:"foreignKey:ProjectEstimateID;constraint:OnDelete:CASCADE"`
	Versions              []EstimateVersion `gorm:"foreignKey:ProjectEstimateID;constraint:OnDelete:CASCADE"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

type Phase struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectEstimateID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_phase_order"`
	Name              string    `gorm:"not null"`
	Description       string
	OrderIndex        int        `gorm:"not null;uniqueIndex:idx_phase_order"`
	Activities        []Activity `gorm:"foreignKey:PhaseID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Activity struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PhaseID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_activity_order"`
	Name        string    `gorm:"not null"`
	Description string
	OrderIndex  int    `gorm:"not null;uniqueIndex:idx_activity_order"`
	Tasks       []Task `gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Task struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ActivityID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_task_order"`
	Name           string    `gorm:"not null"`
	Description    string
	OrderIndex     int        `gorm:"not null;uniqueIndex:idx_task_order"`
	Complexity     Complexity `gorm:"type:varchar(20)"`
	StoryPoints    int        `gorm:"default:0"`
	EstimatedHours float64    `gorm:"default:0"`
	Assignments    []Assignment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Assignment struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TaskID           uuid.UUID `gorm:"type:uuid;not null;index"`
	RoleLevelID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RoleLevel        *RoleLevel `gorm:"foreignKey:RoleLevelID"`
	Hours            float64    `gorm:"not null"`
	BillRateOverride *float64
	CostRateOverride *float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

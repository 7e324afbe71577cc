package model

import (
	"time"

	"github.com/google/uuid"
)

type RoleLevel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name            string    `gorm:"not null;uniqueIndex:idx_role_name_level"`
	Level           string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_role_name_level"`
	DefaultBillRate float64   `gorm:"not null"`
	DefaultCostRate float64   `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidRates reports whether the default rate pair is coherent: a role must
// bill out above its internal cost.
func (r *RoleLevel) ValidRates() bool {
	return r.DefaultBillRate > r.DefaultCostRate
}

type ComplexityMatrixEntry struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoleLevelID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_matrix_role_complexity"`
	RoleLevel          *RoleLevel `gorm:"foreignKey:RoleLevelID"`
	Complexity         Complexity `gorm:"type:varchar(20);not null;uniqueIndex:idx_matrix_role_complexity"`
	HoursPerStoryPoint float64    `gorm:"not null"`
	CreatedAt          time.Time
}

func (ComplexityMatrixEntry) TableName() string {
	return "complexity_matrix"
}

type RateOverride struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectEstimateID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_override_estimate_role"`
	RoleLevelID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_override_estimate_role"`
	RoleLevel         *RoleLevel `gorm:"foreignKey:RoleLevelID"`
	BillRate          float64    `gorm:"not null"`
	CostRate          float64    `gorm:"not null"`
	CreatedAt         time.Time
}

func (r *RateOverride) ValidRates() bool {
	return r.BillRate > r.CostRate
}

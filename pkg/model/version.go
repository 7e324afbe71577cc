package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SnapshotData is an opaque JSON document stored in a jsonb column. Versions
// are append-only; the blob is written once and never updated.
type SnapshotData []byte

func (s SnapshotData) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return []byte(s), nil
}

func (s *SnapshotData) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*s = append((*s)[:0], v...)
		return nil
	case string:
		*s = SnapshotData(v)
		return nil
	default:
		return fmt.Errorf("failed to scan SnapshotData: %v", value)
	}
}

func (SnapshotData) GormDataType() string {
	return "jsonb"
}

func (s SnapshotData) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return []byte(s), nil
}

func (s *SnapshotData) UnmarshalJSON(data []byte) error {
	*s = append((*s)[:0], data...)
	return nil
}

type EstimateVersion struct {
	ID                uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProjectEstimateID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_estimate_version"`
	VersionNumber     int          `gorm:"not null;uniqueIndex:idx_estimate_version"`
	SnapshotData      SnapshotData `gorm:"type:jsonb;not null"`
	CreatedBy         string
	Notes             string
	CreatedAt         time.Time
}

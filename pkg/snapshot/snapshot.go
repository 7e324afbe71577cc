// Package snapshot serializes an estimate's full tree into the immutable
// blob stored with each version record.
package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
)

// SchemaVersion tags every snapshot so future format changes can be
// migrated on read.
const SchemaVersion = 1

type Snapshot struct {
	SchemaVersion int      `json:"schema_version"`
	TakenAt       time.Time `json:"taken_at"`
	Estimate      Estimate  `json:"estimate"`
}

type Estimate struct {
	ID                    uuid.UUID            `json:"id"`
	Name                  string               `json:"name"`
	Description           string               `json:"description"`
	Currency              string               `json:"currency"`
	ContingencyPercentage float64              `json:"contingency_percentage"`
	Status                model.EstimateStatus `json:"status"`
	Phases                []Phase              `json:"phases"`
}

type Phase struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OrderIndex  int        `json:"order_index"`
	Activities  []Activity `json:"activities"`
}

type Activity struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
	Tasks       []Task    `json:"tasks"`
}

type Task struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	OrderIndex     int              `json:"order_index"`
	Complexity     model.Complexity `json:"complexity,omitempty"`
	StoryPoints    int              `json:"story_points"`
	EstimatedHours float64          `json:"estimated_hours"`
	Assignments    []Assignment     `json:"assignments"`
}

type Assignment struct {
	ID               uuid.UUID `json:"id"`
	RoleLevelID      uuid.UUID `json:"role_level_id"`
	Hours            float64   `json:"hours"`
	BillRateOverride *float64  `json:"bill_rate_override,omitempty"`
	CostRateOverride *float64  `json:"cost_rate_override,omitempty"`
}

// Take serializes the estimate's current tree. The estimate must be loaded
// with its full hierarchy.
func Take(estimate *model.ProjectEstimate, takenAt time.Time) (model.SnapshotData, error) {
	snap := Snapshot{
		SchemaVersion: SchemaVersion,
		TakenAt:       takenAt.UTC(),
		Estimate: Estimate{
			ID:                    estimate.ID,
			Name:                  estimate.Name,
			Description:           estimate.Description,
			Currency:              estimate.Currency,
			ContingencyPercentage: estimate.ContingencyPercentage,
			Status:                estimate.Status,
			Phases:                make([]Phase, 0, len(estimate.Phases)),
		},
	}

	for p := range estimate.Phases {
		phase := &estimate.Phases[p]
		phaseSnap := Phase{
			ID:          phase.ID,
			Name:        phase.Name,
			Description: phase.Description,
			OrderIndex:  phase.OrderIndex,
			Activities:  make([]Activity, 0, len(phase.Activities)),
		}

		for a := range phase.Activities {
			activity := &phase.Activities[a]
			activitySnap := Activity{
				ID:          activity.ID,
				Name:        activity.Name,
				Description: activity.Description,
				OrderIndex:  activity.OrderIndex,
				Tasks:       make([]Task, 0, len(activity.Tasks)),
			}

			for t := range activity.Tasks {
				task := &activity.Tasks[t]
				taskSnap := Task{
					ID:             task.ID,
					Name:           task.Name,
					Description:    task.Description,
					OrderIndex:     task.OrderIndex,
					Complexity:     task.Complexity,
					StoryPoints:    task.StoryPoints,
					EstimatedHours: task.EstimatedHours,
					Assignments:    make([]Assignment, 0, len(task.Assignments)),
				}
				for i := range task.Assignments {
					assignment := &task.Assignments[i]
					taskSnap.Assignments = append(taskSnap.Assignments, Assignment{
						ID:               assignment.ID,
						RoleLevelID:      assignment.RoleLevelID,
						Hours:            assignment.Hours,
						BillRateOverride: assignment.BillRateOverride,
						CostRateOverride: assignment.CostRateOverride,
					})
				}
				activitySnap.Tasks = append(activitySnap.Tasks, taskSnap)
			}

			phaseSnap.Activities = append(phaseSnap.Activities, activitySnap)
		}

		snap.Estimate.Phases = append(snap.Estimate.Phases, phaseSnap)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return model.SnapshotData(data), nil
}

// Restore decodes a stored snapshot blob. Blobs written by a newer schema
// than this build understands are rejected rather than misread.
func Restore(data model.SnapshotData) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snap.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("unsupported snapshot schema version %d", snap.SchemaVersion)
	}
	return &snap, nil
}

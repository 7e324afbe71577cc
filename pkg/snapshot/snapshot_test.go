package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
)

func sampleEstimate() *model.ProjectEstimate {
	billOverride := 275.0
	return &model.ProjectEstimate{
		ID:                    uuid.New(),
		Name:                  "Rollout",
		Description:           "18-month program",
		Currency:              "USD",
		ContingencyPercentage: 15,
		Status:                model.StatusActive,
		Phases: []model.Phase{
			{
				ID:         uuid.New(),
				Name:       "Analyze",
				OrderIndex: 0,
				Activities: []model.Activity{
					{
						ID:         uuid.New(),
						Name:       "Workshops",
						OrderIndex: 0,
						Tasks: []model.Task{
							{
								ID:             uuid.New(),
								Name:           "GL workshops",
								OrderIndex:     0,
								Complexity:     model.ComplexityMedium,
								StoryPoints:    2,
								EstimatedHours: 16,
								Assignments: []model.Assignment{
									{
										ID:               uuid.New(),
										RoleLevelID:      uuid.New(),
										Hours:            12,
										BillRateOverride: &billOverride,
									},
								},
							},
						},
					},
				},
			},
		},
	}
}

func TestTakeRestoreRoundTrip(t *testing.T) {
	estimate := sampleEstimate()
	takenAt := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	data, err := Take(estimate, takenAt)
	if err != nil {
		t.Fatalf("Take error: %v", err)
	}

	snap, err := Restore(data)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	if snap.SchemaVersion != SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SchemaVersion, snap.SchemaVersion)
	}
	if !snap.TakenAt.Equal(takenAt) {
		t.Fatalf("expected taken_at %v, got %v", takenAt, snap.TakenAt)
	}
	if snap.Estimate.ID != estimate.ID || snap.Estimate.Name != estimate.Name {
		t.Fatalf("estimate header mismatch: %+v", snap.Estimate)
	}
	if snap.Estimate.ContingencyPercentage != 15 || snap.Estimate.Status != model.StatusActive {
		t.Fatalf("estimate fields mismatch: %+v", snap.Estimate)
	}

	if len(snap.Estimate.Phases) != 1 {
		t.Fatalf("expected 1 phase, got %d", len(snap.Estimate.Phases))
	}
	task := snap.Estimate.Phases[0].Activities[0].Tasks[0]
	source := estimate.Phases[0].Activities[0].Tasks[0]
	if task.ID != source.ID || task.Complexity != source.Complexity || task.EstimatedHours != source.EstimatedHours {
		t.Fatalf("task mismatch: %+v", task)
	}
	if len(task.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(task.Assignments))
	}
	assignment := task.Assignments[0]
	if assignment.RoleLevelID != source.Assignments[0].RoleLevelID || assignment.Hours != 12 {
		t.Fatalf("assignment mismatch: %+v", assignment)
	}
	if assignment.BillRateOverride == nil || *assignment.BillRateOverride != 275 {
		t.Fatalf("expected bill rate override carried, got %v", assignment.BillRateOverride)
	}
	if assignment.CostRateOverride != nil {
		t.Fatalf("expected nil cost rate override, got %v", assignment.CostRateOverride)
	}
}

func TestTakeIsDetachedFromEstimate(t *testing.T) {
	estimate := sampleEstimate()
	data, err := Take(estimate, time.Now())
	if err != nil {
		t.Fatalf("Take error: %v", err)
	}

	// mutate the live estimate after the snapshot
	estimate.Phases[0].Activities[0].Tasks[0].EstimatedHours = 999
	estimate.Name = "renamed"

	snap, err := Restore(data)
	if err != nil {
		t.Fatalf("Restore error: %v", err)
	}
	if snap.Estimate.Name != "Rollout" {
		t.Fatalf("snapshot must not see later renames, got %q", snap.Estimate.Name)
	}
	if snap.Estimate.Phases[0].Activities[0].Tasks[0].EstimatedHours != 16 {
		t.Fatal("snapshot must not see later edits")
	}
}

func TestRestoreRejectsNewerSchema(t *testing.T) {
	data, err := json.Marshal(map[string]any{"schema_version": SchemaVersion + 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Restore(model.SnapshotData(data)); err == nil {
		t.Fatal("expected error for newer schema version")
	}
}

func TestRestoreRejectsGarbage(t *testing.T) {
	if _, err := Restore(model.SnapshotData("{not json")); err == nil {
		t.Fatal("expected error for malformed blob")
	}
}

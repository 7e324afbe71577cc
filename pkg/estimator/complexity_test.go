package estimator

import (
	"testing"

	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
)

// A High-complexity task worth 3 points against a 16 hours/point factor
// suggests 48 hours regardless of the manually entered estimate; the two
// values coexist and the caller picks.
func TestSuggestedHoursFromMatrix(t *testing.T) {
	roleID := uuid.New()
	matrix := NewMatrix([]model.ComplexityMatrixEntry{
		{RoleLevelID: roleID, Complexity: model.ComplexityHigh, HoursPerStoryPoint: 16},
	})
	task := &model.Task{
		Complexity:     model.ComplexityHigh,
		StoryPoints:    3,
		EstimatedHours: 8,
	}

	if got := SuggestedHours(task, roleID, matrix); got != 48 {
		t.Fatalf("expected 48 suggested hours, got %v", got)
	}
	if task.EstimatedHours != 8 {
		t.Fatalf("expected manual estimate untouched, got %v", task.EstimatedHours)
	}
}

func TestSuggestedHoursNoMatrixEntry(t *testing.T) {
	matrix := NewMatrix(nil)
	task := &model.Task{
		Complexity:     model.ComplexityMedium,
		StoryPoints:    5,
		EstimatedHours: 12.5,
	}

	if got := SuggestedHours(task, uuid.New(), matrix); got != 12.5 {
		t.Fatalf("expected manual fallback 12.5, got %v", got)
	}
}

func TestSuggestedHoursNoComplexity(t *testing.T) {
	roleID := uuid.New()
	matrix := NewMatrix([]model.ComplexityMatrixEntry{
		{RoleLevelID: roleID, Complexity: model.ComplexityLow, HoursPerStoryPoint: 4},
	})

	task := &model.Task{StoryPoints: 3, EstimatedHours: 6}
	if got := SuggestedHours(task, roleID, matrix); got != 6 {
		t.Fatalf("expected manual fallback 6 for task without complexity, got %v", got)
	}

	task = &model.Task{Complexity: model.ComplexityLow, StoryPoints: 0, EstimatedHours: 6}
	if got := SuggestedHours(task, roleID, matrix); got != 6 {
		t.Fatalf("expected manual fallback 6 for task without story points, got %v", got)
	}
}

func TestSuggestedHoursWrongTier(t *testing.T) {
	roleID := uuid.New()
	matrix := NewMatrix([]model.ComplexityMatrixEntry{
		{RoleLevelID: roleID, Complexity: model.ComplexityLow, HoursPerStoryPoint: 4},
	})
	task := &model.Task{
		Complexity:     model.ComplexityHigh,
		StoryPoints:    2,
		EstimatedHours: 10,
	}

	if got := SuggestedHours(task, roleID, matrix); got != 10 {
		t.Fatalf("expected manual fallback 10 for missing tier, got %v", got)
	}
}

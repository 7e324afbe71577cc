package estimator

import (
	"github.com/google/uuid"

	"github.com/costline/costline/pkg/model"
)

type MatrixKey struct {
	RoleLevelID uuid.UUID
	Complexity  model.Complexity
}

// Matrix indexes hours-per-story-point factors by (role level, complexity
// tier).
type Matrix map[MatrixKey]float64

func NewMatrix(entries []model.ComplexityMatrixEntry) Matrix {
	matrix := make(Matrix, len(entries))
	for _, entry := range entries {
		matrix[MatrixKey{RoleLevelID: entry.RoleLevelID, Complexity: entry.Complexity}] = entry.HoursPerStoryPoint
	}
	return matrix
}

// SuggestedHours derives effort for a task from the complexity matrix:
// factor for (role, tier) times the task's story points. When the task has
// no complexity tier or story points, or the matrix has no entry for the
// pair, the task's manually entered hours are returned unchanged. The task
// itself is never mutated; callers decide whether to apply the suggestion.
func SuggestedHours(task *model.Task, roleLevelID uuid.UUID, matrix Matrix) float64 {
	if task.Complexity == "" || task.StoryPoints <= 0 {
		return task.EstimatedHours
	}
	factor, ok := matrix[MatrixKey{RoleLevelID: roleLevelID, Complexity: task.Complexity}]
	if !ok {
		return task.EstimatedHours
	}
	return factor * float64(task.StoryPoints)
}

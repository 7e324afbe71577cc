package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/estimator"
	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store/postgres"
)

type TaskHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewTaskHandler(db *postgres.Store, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{db: db, logger: logger}
}

type taskUpdateRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Complexity     *string  `json:"complexity"`
	StoryPoints    *int     `json:"story_points"`
	EstimatedHours *float64 `json:"estimated_hours"`
}

type taskUpdateResponse struct {
	taskResponse
	// SuggestedHours carries the matrix-derived suggestion per assigned
	// role, keyed by role level id. The stored estimated_hours field is
	// never overwritten; callers choose which figure to apply.
	SuggestedHours map[string]float64 `json:"suggested_hours"`
}

// Update applies a partial edit to a task and returns it together with
// refreshed complexity-based hour suggestions for its assigned roles.
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Complexity != nil {
		complexity := model.Complexity(*req.Complexity)
		if complexity != "" && !complexity.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complexity"})
			return
		}
		updates["complexity"] = complexity
	}
	if req.StoryPoints != nil {
		if *req.StoryPoints < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "story_points must not be negative"})
			return
		}
		updates["story_points"] = *req.StoryPoints
	}
	if req.EstimatedHours != nil {
		if *req.EstimatedHours < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "estimated_hours must not be negative"})
			return
		}
		updates["estimated_hours"] = *req.EstimatedHours
	}

	repo := postgres.NewTaskRepository(h.db.DB())
	if len(updates) > 0 {
		if err := repo.Update(c.Request.Context(), taskID, updates); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	task, err := repo.GetByID(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	matrixRepo := postgres.NewComplexityMatrixRepository(h.db.DB())
	entries, err := matrixRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	matrix := estimator.NewMatrix(entries)

	suggestions := make(map[string]float64, len(task.Assignments))
	for i := range task.Assignments {
		roleLevelID := task.Assignments[i].RoleLevelID
		suggestions[roleLevelID.String()] = estimator.SuggestedHours(task, roleLevelID, matrix)
	}

	c.JSON(http.StatusOK, taskUpdateResponse{
		taskResponse:   mapTask(task),
		SuggestedHours: suggestions,
	})
}

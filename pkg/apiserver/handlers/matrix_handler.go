package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store/postgres"
)

type ComplexityMatrixHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewComplexityMatrixHandler(db *postgres.Store, logger *zap.Logger) *ComplexityMatrixHandler {
	return &ComplexityMatrixHandler{db: db, logger: logger}
}

type matrixEntryCreateRequest struct {
	RoleLevelID        string  `json:"role_level_id" binding:"required"`
	Complexity         string  `json:"complexity" binding:"required"`
	HoursPerStoryPoint float64 `json:"hours_per_story_point" binding:"required"`
}

func (h *ComplexityMatrixHandler) List(c *gin.Context) {
	repo := postgres.NewComplexityMatrixRepository(h.db.DB())
	entries, err := repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]matrixEntryResponse, 0, len(entries))
	for i := range entries {
		response = append(response, mapMatrixEntry(&entries[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *ComplexityMatrixHandler) Create(c *gin.Context) {
	var req matrixEntryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	roleLevelID, err := uuid.Parse(req.RoleLevelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role_level_id"})
		return
	}

	complexity := model.Complexity(req.Complexity)
	if !complexity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complexity"})
		return
	}
	if req.HoursPerStoryPoint <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours_per_story_point must be positive"})
		return
	}

	roleRepo := postgres.NewRoleLevelRepository(h.db.DB())
	exists, err := roleRepo.Exists(c.Request.Context(), roleLevelID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "role level not found"})
		return
	}

	entry := &model.ComplexityMatrixEntry{
		ID:                 uuid.New(),
		RoleLevelID:        roleLevelID,
		Complexity:         complexity,
		HoursPerStoryPoint: req.HoursPerStoryPoint,
	}

	repo := postgres.NewComplexityMatrixRepository(h.db.DB())
	if err := repo.Create(c.Request.Context(), entry); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, mapMatrixEntry(entry))
}

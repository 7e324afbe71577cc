package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store/postgres"
)

type RoleLevelHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewRoleLevelHandler(db *postgres.Store, logger *zap.Logger) *RoleLevelHandler {
	return &RoleLevelHandler{db: db, logger: logger}
}

type roleLevelCreateRequest struct {
	Name            string  `json:"name" binding:"required"`
	Level           string  `json:"level" binding:"required"`
	DefaultBillRate float64 `json:"default_bill_rate" binding:"required"`
	DefaultCostRate float64 `json:"default_cost_rate" binding:"required"`
}

func (h *RoleLevelHandler) List(c *gin.Context) {
	repo := postgres.NewRoleLevelRepository(h.db.DB())
	roleLevels, err := repo.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]roleLevelResponse, 0, len(roleLevels))
	for i := range roleLevels {
		response = append(response, mapRoleLevel(&roleLevels[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *RoleLevelHandler) Create(c *gin.Context) {
	var req roleLevelCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	roleLevel := &model.RoleLevel{
		ID:              uuid.New(),
		Name:            req.Name,
		Level:           req.Level,
		DefaultBillRate: req.DefaultBillRate,
		DefaultCostRate: req.DefaultCostRate,
	}
	if !roleLevel.ValidRates() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "default_bill_rate must exceed default_cost_rate"})
		return
	}

	repo := postgres.NewRoleLevelRepository(h.db.DB())
	if err := repo.Create(c.Request.Context(), roleLevel); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, mapRoleLevel(roleLevel))
}

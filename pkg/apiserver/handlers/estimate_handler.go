package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/builder"
	"github.com/costline/costline/pkg/estimator"
	"github.com/costline/costline/pkg/eventbus"
	"github.com/costline/costline/pkg/metrics"
	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store/postgres"
	redisclient "github.com/costline/costline/pkg/store/redis"
)

type EstimateHandler struct {
	db     *postgres.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

func NewEstimateHandler(db *postgres.Store, redis *redisclient.Client, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{db: db, redis: redis, logger: logger}
}

type estimateCreateRequest struct {
	TemplateID            *string  `json:"template_id"`
	Name                  *string  `json:"name"`
	Description           *string  `json:"description"`
	Currency              *string  `json:"currency"`
	ContingencyPercentage *float64 `json:"contingency_percentage"`
}

type estimateUpdateRequest struct {
	Name                  *string  `json:"name"`
	Description           *string  `json:"description"`
	Currency              *string  `json:"currency"`
	ContingencyPercentage *float64 `json:"contingency_percentage"`
	Status                *string  `json:"status"`
}

type rateOverrideCreateRequest struct {
	RoleLevelID string  `json:"role_level_id" binding:"required"`
	BillRate    float64 `json:"bill_rate" binding:"required"`
	CostRate    float64 `json:"cost_rate" binding:"required"`
}

func (h *EstimateHandler) List(c *gin.Context) {
	repo := postgres.NewEstimateRepository(h.db.DB())
	estimates, err := repo.List(c.Request.Context(), false)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]estimateResponse, 0, len(estimates))
	for i := range estimates {
		response = append(response, mapEstimate(&estimates[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Create builds a new estimate, either blank from the supplied fields or by
// deep-cloning a template's tree when template_id is present. The clone is
// written in a single transaction; a partial tree is never visible.
func (h *EstimateHandler) Create(c *gin.Context) {
	var req estimateCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var estimate *model.ProjectEstimate
	var err error
	source := "blank"

	if req.TemplateID != nil {
		templateID, parseErr := uuid.Parse(*req.TemplateID)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid template_id"})
			return
		}

		repo := postgres.NewEstimateRepository(h.db.DB())
		template, getErr := repo.GetByID(c.Request.Context(), templateID)
		if getErr != nil {
			respondError(c, h.logger, getErr)
			return
		}

		estimate, err = builder.Clone(template, builder.CloneOverrides{
			Name:                  req.Name,
			Description:           req.Description,
			Currency:              req.Currency,
			ContingencyPercentage: req.ContingencyPercentage,
		})
		source = "clone"
	} else {
		spec := builder.EstimateSpec{}
		if req.Name != nil {
			spec.Name = *req.Name
		}
		if req.Description != nil {
			spec.Description = *req.Description
		}
		if req.Currency != nil {
			spec.Currency = *req.Currency
		}
		if req.ContingencyPercentage != nil {
			spec.ContingencyPercentage = *req.ContingencyPercentage
		}
		estimate, err = builder.NewBlank(spec)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	repo := postgres.NewEstimateRepository(h.db.DB())
	if err := repo.CreateTree(c.Request.Context(), estimate); err != nil {
		respondError(c, h.logger, err)
		return
	}

	metrics.EstimatesTotal.WithLabelValues(source).Inc()
	h.publishEstimateEvent(c, "estimate_created", estimate)

	c.JSON(http.StatusCreated, mapEstimate(estimate))
}

func (h *EstimateHandler) Get(c *gin.Context) {
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	repo := postgres.NewEstimateRepository(h.db.DB())
	estimate, err := repo.GetByID(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, mapEstimate(estimate))
}

func (h *EstimateHandler) Update(c *gin.Context) {
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	var req estimateUpdateRequest
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
	if req.Currency != nil {
		if !builder.ValidCurrency(*req.Currency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "currency must be a three-letter ISO 4217 code"})
			return
		}
		updates["currency"] = *req.Currency
	}
	if req.ContingencyPercentage != nil {
		if *req.ContingencyPercentage < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contingency_percentage must not be negative"})
			return
		}
		updates["contingency_percentage"] = *req.ContingencyPercentage
	}

	var next model.EstimateStatus
	if req.Status != nil {
		next = model.EstimateStatus(*req.Status)
		if !next.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
	}

	repo := postgres.NewEstimateRepository(h.db.DB())
	estimate, err := repo.GetByID(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if req.Status != nil {
		if !estimate.Status.CanTransitionTo(next) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status transition"})
			return
		}
		updates["status"] = next
	}

	if len(updates) > 0 {
		if err := repo.Update(c.Request.Context(), estimateID, updates); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	estimate, err = repo.GetByID(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.publishEstimateEvent(c, "estimate_updated", estimate)
	c.JSON(http.StatusOK, mapEstimate(estimate))
}

// Totals computes the full rollup for an estimate: hours, cost, and revenue
// at every level plus contingency-adjusted revenue at the top.
func (h *EstimateHandler) Totals(c *gin.Context) {
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	repo := postgres.NewEstimateRepository(h.db.DB())
	estimate, err := repo.GetByID(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	start := time.Now()
	totals, err := estimator.Rollup(estimate)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	metrics.RollupDuration.Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, totals)
}

func (h *EstimateHandler) CreateRateOverride(c *gin.Context) {
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	var req rateOverrideCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	roleLevelID, err := uuid.Parse(req.RoleLevelID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role_level_id"})
		return
	}

	override := &model.RateOverride{
		ID:                uuid.New(),
		ProjectEstimateID: estimateID,
		RoleLevelID:       roleLevelID,
		BillRate:          req.BillRate,
		CostRate:          req.CostRate,
	}
	if !override.ValidRates() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bill_rate must exceed cost_rate"})
		return
	}

	repo := postgres.NewEstimateRepository(h.db.DB())
	if _, err := repo.GetByID(c.Request.Context(), estimateID); err != nil {
		respondError(c, h.logger, err)
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
	if err := repo.CreateRateOverride(c.Request.Context(), override); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, mapRateOverride(override))
}

func (h *EstimateHandler) ListRateOverrides(c *gin.Context) {
	estimateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	repo := postgres.NewEstimateRepository(h.db.DB())
	overrides, err := repo.ListRateOverrides(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]rateOverrideResponse, 0, len(overrides))
	for i := range overrides {
		response = append(response, mapRateOverride(&overrides[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *EstimateHandler) publishEstimateEvent(c *gin.Context, eventType string, estimate *model.ProjectEstimate) {
	if h.redis == nil {
		return
	}
	bus := eventbus.NewBus(h.redis.Client())
	payload := eventbus.EstimateEvent{
		EstimateID: estimate.ID.String(),
		Status:     string(estimate.Status),
		Name:       estimate.Name,
	}
	if event, err := eventbus.NewEvent(eventType, payload); err == nil {
		_ = bus.Publish(c.Request.Context(), eventbus.ChannelEstimate, event)
	}
}

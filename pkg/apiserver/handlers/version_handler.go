package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/eventbus"
	"github.com/costline/costline/pkg/metrics"
	"github.com/costline/costline/pkg/model"
	"github.com/costline/costline/pkg/store/postgres"
	redisclient "github.com/costline/costline/pkg/store/redis"
)

type VersionHandler struct {
	db     *postgres.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

func NewVersionHandler(db *postgres.Store, redis *redisclient.Client, logger *zap.Logger) *VersionHandler {
	return &VersionHandler{db: db, redis: redis, logger: logger}
}

type versionCreateRequest struct {
	CreatedBy string `json:"created_by"`
	Notes     string `json:"notes"`
}

// Create snapshots the estimate's current state as the next version. Two
// concurrent snapshot requests for one estimate serialize in the store; a
// numbering race surfaces as a conflict.
func (h *VersionHandler) Create(c *gin.Context) {
	estimateID, err := uuid.Parse(c.Param("estimate_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	var req versionCreateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	repo := postgres.NewVersionRepository(h.db.DB())
	version, err := repo.Create(c.Request.Context(), estimateID, req.CreatedBy, req.Notes)
	if err != nil {
		metrics.SnapshotsTotal.WithLabelValues("error").Inc()
		respondError(c, h.logger, err)
		return
	}

	metrics.SnapshotsTotal.WithLabelValues("ok").Inc()
	h.publishVersionEvent(c, version)

	c.JSON(http.StatusCreated, mapVersion(version))
}

func (h *VersionHandler) List(c *gin.Context) {
	estimateID, err := uuid.Parse(c.Param("estimate_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}

	repo := postgres.NewVersionRepository(h.db.DB())
	versions, err := repo.List(c.Request.Context(), estimateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]versionResponse, 0, len(versions))
	for i := range versions {
		response = append(response, mapVersion(&versions[i]))
	}
	c.JSON(http.StatusOK, response)
}

func (h *VersionHandler) publishVersionEvent(c *gin.Context, version *model.EstimateVersion) {
	if h.redis == nil {
		return
	}
	bus := eventbus.NewBus(h.redis.Client())
	payload := eventbus.VersionEvent{
		EstimateID:    version.ProjectEstimateID.String(),
		VersionNumber: version.VersionNumber,
		CreatedBy:     version.CreatedBy,
	}
	if event, err := eventbus.NewEvent("version_created", payload); err == nil {
		_ = bus.Publish(c.Request.Context(), eventbus.ChannelVersion, event)
	}
}

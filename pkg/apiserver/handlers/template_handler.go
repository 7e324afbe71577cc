package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/builder"
	"github.com/costline/costline/pkg/metrics"
	"github.com/costline/costline/pkg/store/postgres"
)

type TemplateHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewTemplateHandler(db *postgres.Store, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{db: db, logger: logger}
}

func (h *TemplateHandler) List(c *gin.Context) {
	repo := postgres.NewEstimateRepository(h.db.DB())
	templates, err := repo.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response := make([]estimateResponse, 0, len(templates))
	for i := range templates {
		response = append(response, mapEstimate(&templates[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Create builds a template with its nested phase/activity/task tree from
// the request payload and writes it in one transaction.
func (h *TemplateHandler) Create(c *gin.Context) {
	var spec builder.EstimateSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	template, err := builder.NewTemplate(spec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	repo := postgres.NewEstimateRepository(h.db.DB())
	if err := repo.CreateTree(c.Request.Context(), template); err != nil {
		respondError(c, h.logger, err)
		return
	}

	metrics.EstimatesTotal.WithLabelValues("template").Inc()
	c.JSON(http.StatusCreated, mapEstimate(template))
}

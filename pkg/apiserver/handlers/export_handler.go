package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/store/postgres"
)

// ExportHandler reserves the document-export and actuals endpoints. The
// routes are wired so clients get a clean 501 rather than a 404 while the
// features remain unimplemented.
type ExportHandler struct {
	db     *postgres.Store
	logger *zap.Logger
}

func NewExportHandler(db *postgres.Store, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{db: db, logger: logger}
}

func (h *ExportHandler) ExportPDF(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	c.JSON(http.StatusNotImplemented, gin.H{"error": "PDF export not yet implemented"})
}

func (h *ExportHandler) ExportExcel(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	c.JSON(http.StatusNotImplemented, gin.H{"error": "Excel export not yet implemented"})
}

func (h *ExportHandler) PostActuals(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate id"})
		return
	}
	c.JSON(http.StatusNotImplemented, gin.H{"error": "actuals tracking not yet implemented"})
}

package apiserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/costline/costline/pkg/apiserver/handlers"
	"github.com/costline/costline/pkg/apiserver/middleware"
	"github.com/costline/costline/pkg/config"
	"github.com/costline/costline/pkg/store/postgres"
	redisclient "github.com/costline/costline/pkg/store/redis"
)

type Server struct {
	router *gin.Engine
	db     *postgres.Store
	redis  *redisclient.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *postgres.Store, redis *redisclient.Client, cfg *config.Config, logger *zap.Logger) *Server {
	s := &Server{
		db:     db,
		redis:  redis,
		cfg:    cfg,
		logger: logger,
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger(s.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	r.GET("/health", s.health)

	api := r.Group("/api/v1")
	{
		api.Use(middleware.Auth(s.cfg.Auth))

		templateHandler := handlers.NewTemplateHandler(s.db, s.logger)
		api.GET("/templates", templateHandler.List)
		api.POST("/templates", templateHandler.Create)

		estimateHandler := handlers.NewEstimateHandler(s.db, s.redis, s.logger)
		api.GET("/estimates", estimateHandler.List)
		api.POST("/estimates", estimateHandler.Create)
		api.GET("/estimates/:id", estimateHandler.Get)
		api.PATCH("/estimates/:id", estimateHandler.Update)
		api.GET("/estimates/:id/totals", estimateHandler.Totals)
		api.GET("/estimates/:id/rate-overrides", estimateHandler.ListRateOverrides)
		api.POST("/estimates/:id/rate-overrides", estimateHandler.CreateRateOverride)

		taskHandler := handlers.NewTaskHandler(s.db, s.logger)
		api.PATCH("/tasks/:id", taskHandler.Update)

		roleLevelHandler := handlers.NewRoleLevelHandler(s.db, s.logger)
		api.GET("/role-levels", roleLevelHandler.List)
		api.POST("/role-levels", roleLevelHandler.Create)

		matrixHandler := handlers.NewComplexityMatrixHandler(s.db, s.logger)
		api.GET("/complexity-matrix", matrixHandler.List)
		api.POST("/complexity-matrix", matrixHandler.Create)

		versionHandler := handlers.NewVersionHandler(s.db, s.redis, s.logger)
		api.POST("/versions/:estimate_id", versionHandler.Create)
		api.GET("/versions/:estimate_id", versionHandler.List)

		exportHandler := handlers.NewExportHandler(s.db, s.logger)
		api.GET("/export/pdf/:id", exportHandler.ExportPDF)
		api.GET("/export/excel/:id", exportHandler.ExportExcel)
		api.POST("/actuals/:id", exportHandler.PostActuals)
	}

	s.router = r
}

func (s *Server) health(c *gin.Context) {
	status := gin.H{"status": "ok"}
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()); err != nil {
			status["redis"] = "unreachable"
		} else {
			status["redis"] = "ok"
		}
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

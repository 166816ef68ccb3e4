package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/subplan-io/subplan-api/api/swagger"
	"github.com/subplan-io/subplan-api/internal/handler"
	"github.com/subplan-io/subplan-api/internal/repository"
	"github.com/subplan-io/subplan-api/internal/service"
	"github.com/subplan-io/subplan-api/pkg/cache"
	"github.com/subplan-io/subplan-api/pkg/config"
	"github.com/subplan-io/subplan-api/pkg/database"
	"github.com/subplan-io/subplan-api/pkg/export"
	"github.com/subplan-io/subplan-api/pkg/logger"
	corsmiddleware "github.com/subplan-io/subplan-api/pkg/middleware/cors"
	reqidmiddleware "github.com/subplan-io/subplan-api/pkg/middleware/requestid"
)

// @title Subplan API
// @version 1.0.0
// @description Substitute planning service: absence coverage, schedule conflicts and substitute recommendations
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, directory caching disabled", "error", err)
		redisClient = nil
	}

	snapshots := repository.NewSnapshotCache(redisClient, cfg.Coverage.DirectoryCacheTTL, logr)
	teacherRepo := repository.NewTeacherRepository(db, snapshots)
	classRepo := repository.NewClassRepository(db, snapshots)
	slotRepo := repository.NewTimeSlotRepository(db, snapshots)
	absenceRepo := repository.NewAbsenceRepository(db)
	substitutionRepo := repository.NewSubstitutionRepository(db)

	validate := validator.New()
	metrics := service.NewMetricsService()

	teacherSvc := service.NewTeacherService(teacherRepo, slotRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, teacherRepo, slotRepo, validate, logr)
	slotSvc := service.NewTimeSlotService(slotRepo, validate, logr)
	absenceSvc := service.NewAbsenceService(absenceRepo, teacherRepo, validate, logr)
	coverageSvc := service.NewCoverageService(teacherRepo, classRepo, slotRepo, absenceRepo, substitutionRepo, metrics, cfg.Coverage.MaxRangeDays, logr)
	substituteSvc := service.NewSubstituteService(teacherRepo, classRepo, slotRepo, absenceRepo, substitutionRepo, metrics, validate, logr)

	handlers := handler.Handlers{
		Teachers:      handler.NewTeacherHandler(teacherSvc),
		Classes:       handler.NewClassHandler(classSvc),
		TimeSlots:     handler.NewTimeSlotHandler(slotSvc),
		Absences:      handler.NewAbsenceHandler(absenceSvc),
		Coverage:      handler.NewCoverageHandler(coverageSvc, export.NewCSVExporter(), export.NewPDFExporter(), cfg.Exports.Title),
		Substitutions: handler.NewSubstitutionHandler(substituteSvc),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Register(r.Group(cfg.APIPrefix), handlers, metrics, cfg.JWT.Secret, cfg.Exports.Enabled)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

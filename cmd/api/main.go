package main

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	_ "github.com/GinoPuma/gestion-escolar/api/swagger"
	"github.com/GinoPuma/gestion-escolar/internal/handler"
	"github.com/GinoPuma/gestion-escolar/internal/repository"
	"github.com/GinoPuma/gestion-escolar/internal/router"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	"github.com/GinoPuma/gestion-escolar/pkg/cache"
	"github.com/GinoPuma/gestion-escolar/pkg/config"
	"github.com/GinoPuma/gestion-escolar/pkg/database"
	"github.com/GinoPuma/gestion-escolar/pkg/export"
	"github.com/GinoPuma/gestion-escolar/pkg/logger"
)

// @title API de Gestión Escolar
// @version 1.0.0
// @description API REST para la administración de estudiantes, matrículas y pagos.
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Dashboard.CacheEnabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
			redisClient = nil
		}
	}

	validate := validator.New()
	metrics := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	guardianRepo := repository.NewGuardianRepository(db)
	academicRepo := repository.NewAcademicRepository(db)
	institutionRepo := repository.NewInstitutionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	paymentTypeRepo := repository.NewPaymentTypeRepository(db)
	paymentMethodRepo := repository.NewPaymentMethodRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.Expiration,
		Issuer: "gestion-escolar",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, guardianRepo, validate, logr)
	guardianSvc := service.NewGuardianService(guardianRepo, validate, logr)
	academicSvc := service.NewAcademicService(academicRepo, validate, logr)
	institutionSvc := service.NewInstitutionService(institutionRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, academicRepo, validate, logr)
	paymentSvc := service.NewPaymentService(
		paymentRepo,
		enrollmentRepo,
		paymentTypeRepo,
		paymentMethodRepo,
		institutionRepo,
		export.NewCSVExporter(),
		export.NewPDFExporter(),
		validate,
		logr,
	)
	paymentTypeSvc := service.NewPaymentTypeService(paymentTypeRepo, enrollmentRepo, validate, logr)
	paymentMethodSvc := service.NewPaymentMethodService(paymentMethodRepo, validate, logr)
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	statsSvc := service.NewStatsService(statsRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Users:         handler.NewUserHandler(userSvc),
		Students:      handler.NewStudentHandler(studentSvc),
		Guardians:     handler.NewGuardianHandler(guardianSvc),
		Academic:      handler.NewAcademicHandler(academicSvc),
		Institution:   handler.NewInstitutionHandler(institutionSvc),
		Enrollments:   handler.NewEnrollmentHandler(enrollmentSvc),
		Payments:      handler.NewPaymentHandler(paymentSvc),
		PaymentTypes:  handler.NewPaymentTypeHandler(paymentTypeSvc),
		PaymentMethod: handler.NewPaymentMethodHandler(paymentMethodSvc),
		Stats:         handler.NewStatsHandler(statsSvc),
		Metrics:       handler.NewMetricsHandler(metrics),
	}

	r := router.New(cfg, logr, authSvc, metrics, handlers)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

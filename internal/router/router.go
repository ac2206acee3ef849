package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/GinoPuma/gestion-escolar/internal/handler"
	"github.com/GinoPuma/gestion-escolar/internal/middleware"
	"github.com/GinoPuma/gestion-escolar/internal/models"
	"github.com/GinoPuma/gestion-escolar/internal/service"
	"github.com/GinoPuma/gestion-escolar/pkg/config"
	"github.com/GinoPuma/gestion-escolar/pkg/logger"
	"github.com/GinoPuma/gestion-escolar/pkg/middleware/cors"
	"github.com/GinoPuma/gestion-escolar/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by the router.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Students      *handler.StudentHandler
	Guardians     *handler.GuardianHandler
	Academic      *handler.AcademicHandler
	Institution   *handler.InstitutionHandler
	Enrollments   *handler.EnrollmentHandler
	Payments      *handler.PaymentHandler
	PaymentTypes  *handler.PaymentTypeHandler
	PaymentMethod *handler.PaymentMethodHandler
	Stats         *handler.StatsHandler
	Metrics       *handler.MetricsHandler
}

// New assembles the gin engine with the full route table.
func New(cfg *config.Config, log *zap.Logger, auth *service.AuthService, metrics *service.MetricsService, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(cors.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	protect := middleware.Protect(auth)
	admin := middleware.RequireRoles(models.RoleAdministrador)
	staff := middleware.RequireRoles(models.RoleAdministrador, models.RoleSecretaria)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", protect, h.Auth.Me)
	}

	users := api.Group("/usuarios", protect, admin)
	{
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
		users.POST("", h.Users.Create)
		users.PUT("/:id", h.Users.Update)
		users.PATCH("/:id/deactivate", h.Users.Deactivate)
		users.PATCH("/:id/activate", h.Users.Activate)
	}

	// The academic hierarchy is admin-only; the institution profile is also
	// readable and writable by Secretaria.
	cfgGroup := api.Group("/config", protect)
	{
		cfgGroup.GET("/niveles", admin, h.Academic.ListLevels)
		cfgGroup.POST("/niveles", admin, h.Academic.CreateLevel)
		cfgGroup.PUT("/niveles/:id", admin, h.Academic.UpdateLevel)
		cfgGroup.DELETE("/niveles/:id", admin, h.Academic.DeleteLevel)

		cfgGroup.GET("/grados", admin, h.Academic.ListGrades)
		cfgGroup.GET("/grados/nivel/:nivelId", admin, h.Academic.ListGradesByLevel)
		cfgGroup.POST("/grados", admin, h.Academic.CreateGrade)
		cfgGroup.PUT("/grados/:id", admin, h.Academic.UpdateGrade)
		cfgGroup.DELETE("/grados/:id", admin, h.Academic.DeleteGrade)

		cfgGroup.GET("/secciones", admin, h.Academic.ListSections)
		cfgGroup.GET("/secciones/grado/:gradoId", admin, h.Academic.ListSectionsByGrade)
		cfgGroup.POST("/secciones", admin, h.Academic.CreateSection)
		cfgGroup.PUT("/secciones/:id", admin, h.Academic.UpdateSection)
		cfgGroup.DELETE("/secciones/:id", admin, h.Academic.DeleteSection)

		cfgGroup.GET("/institucion", staff, h.Institution.Get)
		cfgGroup.PUT("/institucion", staff, h.Institution.Save)
	}

	students := api.Group("/estudiantes", protect, staff)
	{
		students.GET("", h.Students.List)
		students.GET("/:id", h.Students.Get)
		students.POST("", h.Students.Create)
		students.PUT("/:id", h.Students.Update)
		students.DELETE("/:id", admin, h.Students.Delete)

		students.GET("/:id/responsables", h.Students.Guardians)
		students.POST("/:id/responsables", h.Students.AttachGuardian)
		students.DELETE("/:id/responsables/:responsableId", h.Students.DetachGuardian)
	}

	guardians := api.Group("/responsables", protect, staff)
	{
		guardians.GET("", h.Guardians.List)
		guardians.GET("/:id", h.Guardians.Get)
		guardians.POST("", h.Guardians.Create)
		guardians.PUT("/:id", h.Guardians.Update)
		guardians.DELETE("/:id", admin, h.Guardians.Delete)
		guardians.GET("/:id/estudiantes", h.Guardians.Students)
	}

	enrollments := api.Group("/matriculas", protect, staff)
	{
		enrollments.GET("", h.Enrollments.List)
		enrollments.GET("/:id", h.Enrollments.Get)
		enrollments.POST("", h.Enrollments.Create)
		enrollments.PUT("/:id", h.Enrollments.Update)
		enrollments.DELETE("/:id", admin, h.Enrollments.Delete)
	}

	paymentTypes := api.Group("/tipos-pago", protect)
	{
		paymentTypes.GET("", staff, h.PaymentTypes.List)
		paymentTypes.GET("/:id", staff, h.PaymentTypes.Get)
		paymentTypes.POST("", admin, h.PaymentTypes.Create)
		paymentTypes.PUT("/:id", admin, h.PaymentTypes.Update)
		paymentTypes.DELETE("/:id", admin, h.PaymentTypes.Delete)
	}

	paymentMethods := api.Group("/metodos-pago", protect)
	{
		paymentMethods.GET("", staff, h.PaymentMethod.List)
		paymentMethods.GET("/:id", staff, h.PaymentMethod.Get)
		paymentMethods.POST("", admin, h.PaymentMethod.Create)
		paymentMethods.PUT("/:id", admin, h.PaymentMethod.Update)
		paymentMethods.DELETE("/:id", admin, h.PaymentMethod.Delete)
	}

	payments := api.Group("/pagos", protect, staff)
	{
		payments.GET("", h.Payments.List)
		payments.GET("/export", h.Payments.ExportCSV)
		payments.GET("/estado-cuenta/:matriculaId", h.Payments.AccountStatement)
		payments.GET("/:id", h.Payments.Get)
		payments.GET("/:id/recibo", h.Payments.Receipt)
		payments.POST("", h.Payments.Create)
		payments.PUT("/:id", h.Payments.Update)
		payments.DELETE("/:id", admin, h.Payments.Delete)
	}

	stats := api.Group("/stats", protect, staff)
	{
		stats.GET("/dashboard", h.Stats.Dashboard)
	}

	return r
}

package router

import (
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/neuroscan/clinic-api/internal/config"
	adminhandler "github.com/neuroscan/clinic-api/internal/handler/admin"
	authhandler "github.com/neuroscan/clinic-api/internal/handler/auth"
	doctorhandler "github.com/neuroscan/clinic-api/internal/handler/doctor"
	healthhandler "github.com/neuroscan/clinic-api/internal/handler/health"
	patienthandler "github.com/neuroscan/clinic-api/internal/handler/patient"
	"github.com/neuroscan/clinic-api/internal/middleware"
	"github.com/neuroscan/clinic-api/internal/model"
	"github.com/neuroscan/clinic-api/pkg/logger"
	"github.com/neuroscan/clinic-api/pkg/metrics"
	"github.com/neuroscan/clinic-api/pkg/validator"
)

const doctorListingTTL = 30 * time.Second

// Handlers bundles the route surfaces wired into the engine.
type Handlers struct {
	Auth    *authhandler.Handler
	Patient *patienthandler.Handler
	Doctor  *doctorhandler.Handler
	Admin   *adminhandler.Handler
	Health  *healthhandler.Handler
}

// New assembles the gin engine: ambient middleware, the metrics endpoint,
// and one route group per role.
func New(cfg *config.Config, log *logger.Logger, m *metrics.Metrics, authMW *middleware.AuthMiddleware, handlers Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	validator.RegisterTagNames()
	engine := gin.New()

	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.RequestMetrics(m),
		middleware.Recovery(log),
		middleware.CORS(),
		middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst).Limit(),
	)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.Health.RegisterRoutes(engine)

	api := engine.Group("/api/v1")

	handlers.Auth.RegisterRoutes(api.Group("/auth"))

	// The approved-doctor directory is public and changes rarely; serve it
	// from a short-lived cache.
	listingCache := gocache.New(doctorListingTTL, time.Minute)
	api.GET("/doctors", middleware.CacheResponse(listingCache, doctorListingTTL), handlers.Patient.ListDoctors)

	patient := api.Group("/patient", authMW.Authenticate(), authMW.RequireRole(model.RolePatient))
	handlers.Patient.RegisterRoutes(patient)

	doctor := api.Group("/doctor", authMW.Authenticate(), authMW.RequireRole(model.RoleDoctor))
	handlers.Doctor.RegisterRoutes(doctor)

	admin := api.Group("/admin", authMW.Authenticate(), authMW.RequireRole(model.RoleAdmin))
	handlers.Admin.RegisterRoutes(admin)

	return engine
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/neuroscan/clinic-api/internal/config"
	adminhandler "github.com/neuroscan/clinic-api/internal/handler/admin"
	authhandler "github.com/neuroscan/clinic-api/internal/handler/auth"
	doctorhandler "github.com/neuroscan/clinic-api/internal/handler/doctor"
	healthhandler "github.com/neuroscan/clinic-api/internal/handler/health"
	patienthandler "github.com/neuroscan/clinic-api/internal/handler/patient"
	"github.com/neuroscan/clinic-api/internal/middleware"
	"github.com/neuroscan/clinic-api/internal/repository/postgres"
	"github.com/neuroscan/clinic-api/internal/router"
	authservice "github.com/neuroscan/clinic-api/internal/service/auth"
	"github.com/neuroscan/clinic-api/internal/service/directory"
	"github.com/neuroscan/clinic-api/internal/service/prediction"
	"github.com/neuroscan/clinic-api/internal/service/report"
	"github.com/neuroscan/clinic-api/internal/service/scheduling"
	pkgauth "github.com/neuroscan/clinic-api/pkg/auth"
	"github.com/neuroscan/clinic-api/pkg/logger"
	"github.com/neuroscan/clinic-api/pkg/metrics"
	"github.com/neuroscan/clinic-api/pkg/security"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.NewMetrics("neuroscan", "api")

	directoryService := directory.NewService(userRepo, outboxRepo, security.NewBcryptHasher(bcrypt.DefaultCost))
	schedulingService := scheduling.NewService(appointmentRepo, userRepo, outboxRepo).WithMetrics(m).WithLogger(log)
	predictionService := prediction.NewService(predictionRepo, userRepo, prediction.NewHTTPClassifier(&cfg.Classifier))
	reportService := report.NewService(userRepo, appointmentRepo, predictionRepo)

	tokens := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authService := authservice.NewService(directoryService, tokens)

	engine := router.New(cfg, log, m, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:    authhandler.NewHandler(authService),
		Patient: patienthandler.NewHandler(directoryService, schedulingService, predictionService, reportService),
		Doctor:  doctorhandler.NewHandler(directoryService, schedulingService, predictionService, reportService),
		Admin:   adminhandler.NewHandler(directoryService, schedulingService, predictionService, reportService),
		Health:  healthhandler.NewHandler(db),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/apiclient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

func main() {

	cfg := config.Load()
	log := newLogger(cfg)

	if !timezone.IsValid(cfg.ClinicTimezone) {
		log.Warnf("invalid CLINIC_TIMEZONE %q, using UTC", cfg.ClinicTimezone)
	}
	loc := timezone.Location(cfg.ClinicTimezone)
	now := func() time.Time { return timezone.NowIn(loc) }

	// ======================================================
	// AUDIT
	// ======================================================
	var auditDB *gorm.DB
	var sink audit.Sink = audit.NewLogSink(log)

	if cfg.AuditDBUrl != "" {
		db, err := dbpkg.NewAuditDB(cfg.AuditDBUrl, log)
		if err != nil {
			log.Fatalf("audit database: %v", err)
		}
		auditDB = db
		sink = audit.New(db)
	}

	dispatcher := audit.NewDispatcher(sink, log)

	// ======================================================
	// REMOTE API
	// ======================================================
	client := apiclient.New(
		cfg.APIBaseURL,
		cfg.APITimeout,
		log,
		apiclient.WithUnauthorizedHandler(func(ctx context.Context, s *session.Session) {
			dispatcher.Dispatch(audit.Event{
				Actor:     s.Subject(),
				Action:    "session_expired",
				Entity:    "session",
				RequestID: apiclient.RequestID(ctx),
			})
		}),
	)

	var repo domain.Repository = infraRepo.NewAppointmentRemoteRepository(client, infraRepo.NewMapper(log))

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		c, err := cache.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, log)
		if err != nil {
			log.Warnf("catalog cache disabled: %v", err)
		} else {
			rdb = c
			repo = cache.NewCatalogRepository(repo, rdb, cfg.CatalogTTL, log)
		}
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestLogger(log),
		middleware.CORSMiddleware(cfg.AllowedOrigins),
		gin.Recovery(),
	)

	routes.RegisterRoutes(r, routes.Deps{
		Config:  cfg,
		Log:     log,
		Loc:     loc,
		Now:     now,
		Repo:    repo,
		Auth:    client,
		Audit:   dispatcher,
		AuditDB: auditDB,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}

	dispatcher.Close()

	if auditDB != nil {
		dbpkg.Close(auditDB)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

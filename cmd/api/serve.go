package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harentsoaR/simple-ehr/internal/config"
	"github.com/harentsoaR/simple-ehr/internal/handlers"
	"github.com/harentsoaR/simple-ehr/internal/middleware"
	"github.com/harentsoaR/simple-ehr/internal/services"
	"github.com/harentsoaR/simple-ehr/internal/session"
	"github.com/harentsoaR/simple-ehr/internal/store"
	"github.com/harentsoaR/simple-ehr/internal/utils"
	"github.com/harentsoaR/simple-ehr/internal/views"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web portal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runServer(cfg)
		},
	}
}

func runServer(cfg *config.Config) error {
	log := newLogger(cfg)
	ctx := context.Background()

	client, db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to open database")
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.WithError(err).Warn("mongodb disconnect failed")
		}
	}()

	revocations, closeRevocations, err := newRevocations(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRevocations()

	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL, revocations)
	creds := store.NewCredentialStore(db, cfg.Mongo.Timeout)
	records := store.NewRecordStore(db, cfg.Mongo.Timeout)
	apts := store.NewAppointmentStore(db, cfg.Mongo.Timeout)
	notifier := services.NewMailNotifier(cfg.SMTP, log)

	h := handlers.NewHandler(handlers.Services{
		Auth:         services.NewAuthService(creds, sessions, utils.DefaultHashCost, log),
		Doctors:      services.NewDoctorService(creds, records, apts, log),
		Appointments: services.NewAppointmentService(creds, apts, notifier, log),
		Patients:     services.NewPatientService(creds, records, apts, log),
	}, sessions, func(ctx context.Context) error {
		return store.Ping(ctx, client)
	}, log, !cfg.IsDev())

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	tmpl, err := views.Load()
	if err != nil {
		return err
	}

	r, err := handlers.NewRouter(cfg.App.TrustedProxies)
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.Session(sessions, log))
	h.RegisterRoutes(r, middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.Login.RequestsPerSecond,
		Burst:             cfg.Login.Burst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
		return err
	}
	log.Info("server stopped")
	return nil
}

// newRevocations uses Redis when REDIS_URL is set and process memory
// otherwise.
func newRevocations(ctx context.Context, cfg *config.Config, log *logrus.Logger) (session.Revocations, func(), error) {
	if cfg.Redis.URL == "" {
		log.Warn("REDIS_URL not set, session revocations are kept in memory")
		return session.NewMemoryRevocations(), func() {}, nil
	}
	client, err := session.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Error("failed to connect to redis")
		return nil, nil, err
	}
	log.Info("connected to Redis")
	return session.NewRedisRevocations(client), func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("redis close failed")
		}
	}, nil
}

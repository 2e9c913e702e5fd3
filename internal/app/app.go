package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mahatkd/federation-api/internal/auth"
	"github.com/mahatkd/federation-api/internal/config"
	"github.com/mahatkd/federation-api/internal/database"
	handler "github.com/mahatkd/federation-api/internal/handler/http"
	"github.com/mahatkd/federation-api/internal/mail"
	"github.com/mahatkd/federation-api/internal/migrations"
	"github.com/mahatkd/federation-api/internal/repository/postgres"
	"github.com/mahatkd/federation-api/internal/service"
	"github.com/mahatkd/federation-api/pkg/httputil"
)

// App wires together all dependencies and runs the federation API.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	guardian   *database.Guardian
	redis      *redis.Client
	httpServer *http.Server

	cancelGuardian context.CancelFunc
}

// NewApp creates the application, connecting to every configured backend.
// The database must be reachable at boot; mail, Redis, and Google sign-in
// are optional and degrade to no-ops when unconfigured.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	httputil.ExposeInternalErrors(cfg.Environment == "development")

	// The guardian owns the connection for the life of the process.
	connect := func(ctx context.Context) (database.Pool, error) {
		return database.Connect(ctx, cfg.DatabaseURL, database.DefaultPoolConfig())
	}
	guardian := database.NewGuardian(connect, database.DefaultGuardianConfig(), logger)
	if err := guardian.Start(ctx); err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL")

	if err := database.RunMigrations(ctx, guardian, migrations.FS, logger); err != nil {
		guardian.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	guardianCtx, cancelGuardian := context.WithCancel(context.Background())
	go guardian.Run(guardianCtx)

	// Redis backs the token denylist; without it logout is cookie-only.
	var redisClient *redis.Client
	var denylist *auth.Denylist
	if cfg.RedisEnabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, token revocation disabled",
				slog.String("addr", cfg.RedisAddr),
				slog.String("error", err.Error()),
			)
			redisClient.Close()
			redisClient = nil
		} else {
			denylist = auth.NewDenylist(redisClient, cfg.JWTLifetime)
			logger.Info("redis token denylist enabled", slog.String("addr", cfg.RedisAddr))
		}
	}

	var mailer mail.Mailer = mail.NopMailer{}
	if cfg.MailEnabled() {
		smtp := mail.NewSMTPMailer(mail.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			Username:    cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			FromAddress: cfg.MailFrom,
			AdminEmail:  cfg.AdminEmail,
			FrontendURL: cfg.FrontendURL,
		})
		mailer = mail.NewBreakerMailer(smtp, logger)
		logger.Info("smtp mail enabled", slog.String("host", cfg.SMTPHost))
	} else {
		logger.Warn("mail not configured, outbound email disabled")
	}

	var googleVerifier auth.GoogleVerifier
	if cfg.GoogleClientID != "" {
		googleVerifier = auth.NewGoogleTokenVerifier(cfg.GoogleClientID)
		logger.Info("google sign-in enabled")
	}

	// Build the dependency graph.
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTLifetime)
	userRepo := postgres.NewUserRepository(guardian)
	eventRepo := postgres.NewEventRepository(guardian)
	galleryRepo := postgres.NewGalleryRepository(guardian)
	contactRepo := postgres.NewContactRepository(guardian)
	enrollmentRepo := postgres.NewEnrollmentRepository(guardian)
	testimonialRepo := postgres.NewTestimonialRepository(guardian)

	authService := service.NewAuthService(userRepo, tokens, denylist, googleVerifier, mailer, logger)
	eventService := service.NewEventService(eventRepo, logger)
	galleryService := service.NewGalleryService(galleryRepo, logger)
	contactService := service.NewContactService(contactRepo, mailer, logger)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo, mailer, logger)
	testimonialService := service.NewTestimonialService(testimonialRepo, logger)

	router := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Guardian: guardian,
		Tokens:   tokens,
		Denylist: denylist,
		Users:    userRepo,

		AuthService:        authService,
		EventService:       eventService,
		GalleryService:     galleryService,
		ContactService:     contactService,
		EnrollmentService:  enrollmentService,
		TestimonialService: testimonialService,

		Logger: logger,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		guardian:       guardian,
		redis:          redisClient,
		httpServer:     httpServer,
		cancelGuardian: cancelGuardian,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: drains in-flight HTTP requests,
// stops the guardian's reconnect loop, then closes Redis and the pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.cancelGuardian()
	a.guardian.Close()

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

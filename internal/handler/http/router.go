package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/mahatkd/federation-api/internal/auth"
	"github.com/mahatkd/federation-api/internal/config"
	"github.com/mahatkd/federation-api/internal/database"
	"github.com/mahatkd/federation-api/internal/domain"
	"github.com/mahatkd/federation-api/internal/repository"
	"github.com/mahatkd/federation-api/internal/service"
	"github.com/mahatkd/federation-api/pkg/middleware"
)

// RouterDeps carries everything the router needs to wire routes.
type RouterDeps struct {
	Config   *config.Config
	Guardian *database.Guardian
	Tokens   *auth.TokenManager
	Denylist *auth.Denylist
	Users    repository.UserRepository

	AuthService        *service.AuthService
	EventService       *service.EventService
	GalleryService     *service.GalleryService
	ContactService     *service.ContactService
	EnrollmentService  *service.EnrollmentService
	TestimonialService *service.TestimonialService

	Logger *slog.Logger
}

// NewRouter creates a chi router with all federation API routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("federation-api"))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   deps.Config.CORSAllowedOrigins,
		AllowCredentials: true,
		Environment:      deps.Config.Environment,
	}))
	r.Use(middleware.RateLimit(rate.Limit(deps.Config.RateLimit), deps.Config.RateLimitBurst, deps.Logger))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	authMW := NewAuthMiddleware(deps.Tokens, deps.Denylist, deps.Users, deps.Logger)
	secureCookie := deps.Config.Environment != "development"

	authHandler := NewAuthHandler(deps.AuthService, deps.Config.JWTLifetime, secureCookie, deps.Logger)
	userHandler := NewUserHandler(deps.AuthService, deps.Logger)
	eventHandler := NewEventHandler(deps.EventService, deps.Logger)
	galleryHandler := NewGalleryHandler(deps.GalleryService, deps.Logger)
	contactHandler := NewContactHandler(deps.ContactService, deps.Logger)
	enrollmentHandler := NewEnrollmentHandler(deps.EnrollmentService, deps.Logger)
	testimonialHandler := NewTestimonialHandler(deps.TestimonialService, deps.Logger)
	healthHandler := NewHealthHandler(deps.Guardian, deps.Config)

	r.Route("/api", func(r chi.Router) {
		// Health reports database state rather than depending on it.
		r.Get("/health", healthHandler.Health)

		r.Group(func(r chi.Router) {
			r.Use(RequireDatabase(deps.Guardian, deps.Logger))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/register", authHandler.Register)
				r.Post("/login", authHandler.Login)
				r.Post("/google", authHandler.GoogleLogin)
				r.Post("/forgot-password", authHandler.ForgotPassword)
				r.Get("/reset-password/{token}/verify", authHandler.VerifyResetToken)
				r.Post("/reset-password/{token}", authHandler.ResetPassword)

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)

					r.Get("/me", authHandler.Me)
					r.Put("/me", authHandler.UpdateProfile)
					r.Post("/logout", authHandler.Logout)
					r.Post("/change-password", authHandler.ChangePassword)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(authMW.Authenticate)
				r.Use(RequireRole(domain.RoleAdmin))

				r.Get("/", userHandler.List)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Get("/upcoming", eventHandler.ListUpcoming)
				r.Get("/{id}", eventHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)
					r.Use(RequireRole(domain.RoleAdmin, domain.RoleInstructor))

					r.Post("/", eventHandler.Create)
					r.Put("/{id}", eventHandler.Update)
					r.Delete("/{id}", eventHandler.Delete)
				})
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(authMW.OptionalAuthenticate)

					r.Get("/", galleryHandler.List)
					r.Get("/category/{category}", galleryHandler.ListByCategory)
					r.Get("/{id}", galleryHandler.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)
					r.Use(RequireRole(domain.RoleAdmin, domain.RoleInstructor))

					r.Post("/", galleryHandler.Create)
					r.Put("/{id}", galleryHandler.Update)
					r.Delete("/{id}", galleryHandler.Delete)
				})
			})

			r.Route("/contact", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)

					r.Post("/", contactHandler.Submit)
				})

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)
					r.Use(RequireRole(domain.RoleAdmin))

					r.Get("/", contactHandler.List)
					r.Get("/{id}", contactHandler.Get)
					r.Put("/{id}", contactHandler.UpdateStatus)
					r.Delete("/{id}", contactHandler.Delete)
				})
			})

			r.Route("/enrollments", func(r chi.Router) {
				// The reference-number status check stays public so an
				// applicant does not need an account to follow up.
				r.Get("/status/{reference}", enrollmentHandler.Status)

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)

					r.Post("/", enrollmentHandler.Submit)
					r.Get("/mine", enrollmentHandler.ListMine)
					// Applicant or admin; ownership enforced below the route.
					r.Get("/{id}", enrollmentHandler.Get)
				})

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)
					r.Use(RequireRole(domain.RoleAdmin))

					r.Get("/all", enrollmentHandler.List)
					r.Put("/{id}/status", enrollmentHandler.Decide)
				})
			})

			r.Route("/testimonials", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(authMW.OptionalAuthenticate)

					r.Get("/", testimonialHandler.List)
				})

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)

					r.Post("/", testimonialHandler.Submit)
				})

				r.Group(func(r chi.Router) {
					r.Use(authMW.Authenticate)
					r.Use(RequireRole(domain.RoleAdmin))

					r.Put("/{id}/approve", testimonialHandler.Approve)
					r.Delete("/{id}", testimonialHandler.Delete)
				})
			})
		})
	})

	return r
}

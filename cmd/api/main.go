// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/crewbase/crewbase/internal/auth"
	"github.com/crewbase/crewbase/internal/config"
	"github.com/crewbase/crewbase/internal/email"
	"github.com/crewbase/crewbase/internal/handler"
	"github.com/crewbase/crewbase/internal/jobs"
	"github.com/crewbase/crewbase/internal/middleware"
	"github.com/crewbase/crewbase/internal/model"
	"github.com/crewbase/crewbase/internal/payment"
	"github.com/crewbase/crewbase/internal/repository"
	"github.com/crewbase/crewbase/internal/scheduler"
	"github.com/crewbase/crewbase/internal/service"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "startup error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   a.Key,
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := setupDatabase(cfg)
	if err != nil {
		return fmt.Errorf("setting up database: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	planRepo := repository.NewPlanRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// Initialize auth services
	passwordHasher := auth.NewPasswordHasher()
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod)

	// Initialize email service
	emailService, err := email.NewEmailService(cfg, email.Provider(cfg.Email.Provider))
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize payment gateway
	gateway := payment.NewGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	// Initialize services
	userService := service.NewUserService(userRepo, companyRepo, passwordHasher, tokenManager)
	companyService := service.NewCompanyService(companyRepo, userRepo, passwordHasher, emailService, cfg)
	planService := service.NewPlanService(planRepo)
	subscriptionService := service.NewSubscriptionService(companyRepo, planRepo)
	projectService := service.NewProjectService(projectRepo, userRepo)
	paymentService := service.NewPaymentService(gateway)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userService, cfg)
	adminHandler := handler.NewAdminHandler(companyService)
	superAdminHandler := handler.NewSuperAdminHandler(companyService, planService)
	projectHandler := handler.NewProjectHandler(projectService)
	managerHandler := handler.NewManagerHandler(companyService, projectService)
	userHandler := handler.NewUserHandler(projectService)
	planHandler := handler.NewPlanHandler(subscriptionService, paymentService, planService)

	// Background subscription expiry sweep
	sweeper := scheduler.New(jobs.NewRunner(subscriptionService), cfg)
	sweeper.Start()
	defer sweeper.Stop()

	// Create router
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(loggingMiddleware(logger))
	r.Use(recoveryMiddleware(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Server.Origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	authenticate := middleware.Authenticate(tokenManager, userRepo)
	companyStatus := middleware.CompanyStatus(companyRepo)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json"))

		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)

				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
			})
		})

		// Company owner routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(model.RoleCompanyOwner))

			// Registration and details work before a subscription exists
			r.Post("/register", adminHandler.RegisterCompany)
			r.Get("/company-details", adminHandler.CompanyDetails)

			// Member management requires an active subscription
			r.Group(func(r chi.Router) {
				r.Use(companyStatus)

				r.Get("/managers", adminHandler.ListManagers)
				r.Post("/managers", adminHandler.CreateManager)
				r.Get("/employees", adminHandler.ListEmployees)
				r.Post("/employees", adminHandler.CreateEmployee)
				r.Delete("/members/{id}", adminHandler.RemoveMember)
			})
		})

		// Project routes. Listing is shared across company roles, status
		// updates extend to the assigned manager, creation and deletion
		// stay with the owner.
		r.Route("/projects", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(companyStatus)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleCompanyOwner, model.RoleManager, model.RoleUser))
				r.Get("/", projectHandler.List)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleCompanyOwner, model.RoleManager))
				r.Patch("/{id}", projectHandler.Update)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleCompanyOwner))
				r.Post("/", projectHandler.Create)
				r.Delete("/{id}", projectHandler.Delete)
			})
		})

		// Manager routes
		r.Route("/manager", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(companyStatus)
			r.Use(middleware.RequireRole(model.RoleManager))

			r.Get("/employees", managerHandler.ListEmployees)
			r.Get("/projects", managerHandler.ListProjects)
			r.Post("/project/{id}/addteam", managerHandler.AddTeamMembers)
		})

		// Employee routes
		r.Route("/user", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(companyStatus)
			r.Use(middleware.RequireRole(model.RoleUser))

			r.Get("/getproject", userHandler.MyProjects)
		})

		// Super admin routes
		r.Route("/superadmin", func(r chi.Router) {
			r.Use(authenticate)
			r.Use(middleware.RequireRole(model.RoleSuperAdmin))

			r.Get("/companies", superAdminHandler.ListCompanies)
			r.Delete("/companies/{id}", superAdminHandler.DeleteCompany)
			r.Post("/create-plans", superAdminHandler.CreatePlan)
			r.Get("/get-plans", superAdminHandler.ListPlans)
		})

		// Plan and payment routes
		r.Route("/plan", func(r chi.Router) {
			r.Use(authenticate)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleSuperAdmin, model.RoleCompanyOwner))

				r.Post("/subscribeplan", planHandler.Subscribe)
				r.Post("/create-order", planHandler.CreateOrder)
				r.Post("/verify-payment", planHandler.VerifyPayment)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(model.RoleSuperAdmin))

				r.Patch("/updateplan/{id}", planHandler.UpdatePlan)
				r.Delete("/deleteplan/{id}", planHandler.DeletePlan)
			})
		})
	})

	// Create server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Server error channel
	serverErrors := make(chan error, 1)

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Shutdown channel
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)

	// Wait for shutdown or error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutdown started", "signal", sig)

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Gracefully shutdown the server
		if err := srv.Shutdown(ctx); err != nil {
			// If shutdown times out, forcefully close
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
		cfg.Database.SearchPath,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request completed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration", time.Since(start),
					"status", ww.Status(),
					"size", ww.BytesWritten(),
					"requestID", chimw.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func recoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					err := errors.New("panic recovered")
					logger.Error("panic recovered",
						"error", err,
						"panic", rvr,
						"stack", string(debug.Stack()),
						"requestID", chimw.GetReqID(r.Context()),
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					w.Write([]byte("{\"error\":\"error encountered\"}"))
					return
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

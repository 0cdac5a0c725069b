package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"attendance/internal/config"
	"attendance/internal/db"
	"attendance/internal/domain/employee"
	"attendance/internal/domain/event"
	"attendance/internal/domain/reports"
	"attendance/internal/geo"
	authhandler "attendance/internal/transport/http/handlers/auth"
	employeeshandler "attendance/internal/transport/http/handlers/employees"
	eventshandler "attendance/internal/transport/http/handlers/events"
	"attendance/internal/transport/http/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	zone, err := time.LoadLocation(cfg.EligibilityZone)
	if err != nil {
		log.Fatalf("load zone %q: %v", cfg.EligibilityZone, err)
	}
	engine := event.NewEngine(zone, cfg.MaxDistanceMeters, geo.DistanceMeters)

	eventService := event.NewService(event.NewStore(pool), engine)
	employeeService := employee.NewService(employee.NewStore(pool))
	reportsService := reports.NewService(reports.NewStore(pool))

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
			authhandler.NewHandler(pool, employeeService, cfg.JWTSecret, cfg.TokenTTL, cfg.AllowSelfSignup).RegisterRoutes(r)
		})

		eventshandler.NewHandler(eventService, reportsService, cfg.AdminMinYear, cfg.EmployeeMinYear).RegisterRoutes(r)
		employeeshandler.NewHandler(employeeService, cfg.MaxAvatarBytes).RegisterRoutes(r)
	})

	log.Printf("attendance server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

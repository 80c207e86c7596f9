package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	api "github.com/teamops/hrcore/internal/api/http"
	"github.com/teamops/hrcore/internal/assignment"
	auth "github.com/teamops/hrcore/internal/auth/middleware"
	"github.com/teamops/hrcore/internal/config"
	"github.com/teamops/hrcore/internal/db"
	"github.com/teamops/hrcore/internal/employee"
	"github.com/teamops/hrcore/internal/grading"
	"github.com/teamops/hrcore/internal/rbac"
)

func main() {
	_ = godotenv.Load() // .env is optional
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	employees := employee.NewSQLStore(dbh)
	store := assignment.NewSQLStore(dbh)
	svc := assignment.NewService(store, employees, grading.NewEngine())

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, employees))

	// Protected API (JWT → principal in context → team gates)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.Route("/assignments", func(ar chi.Router) {
			ar.With(rbac.RequireSupervisory()).Post("/", api.CreateAssignmentHandler(svc))
			ar.Get("/", api.ListAssignmentsHandler(svc))
			ar.Get("/count", api.AssignmentCountHandler(svc))

			ar.Get("/{assignmentID}", api.GetAssignmentHandler(svc))
			ar.Patch("/{assignmentID}", api.EditAssignmentHandler(svc))
			ar.Delete("/{assignmentID}", api.DeleteAssignmentHandler(svc))

			ar.Post("/{assignmentID}/attempts", api.SubmitAttemptHandler(svc))
			ar.Get("/{assignmentID}/attempts", api.AttemptHistoryHandler(svc))
			ar.With(rbac.RequireSupervisory()).Get("/{assignmentID}/report", api.AllAttemptsHandler(svc))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

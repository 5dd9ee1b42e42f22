package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/mind-engage/sheetgrader/internal/api/http"
	auth "github.com/mind-engage/sheetgrader/internal/auth/middleware"
	"github.com/mind-engage/sheetgrader/internal/config"
	"github.com/mind-engage/sheetgrader/internal/grader"
	"github.com/mind-engage/sheetgrader/internal/rbac"
	"github.com/mind-engage/sheetgrader/internal/storage"
	"github.com/mind-engage/sheetgrader/internal/store"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := store.Open(ctx, store.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	st := store.NewSQLStore(dbh)

	// --- Grader (solution loaded once, read-only for the process lifetime) ---
	g, err := grader.New(cfg.Criteria)
	if err != nil {
		log.Fatalf("grader: %v", err)
	}
	sol, err := grader.OpenSolution(cfg.SolutionPath)
	if err != nil {
		log.Fatalf("solution %s: %v", cfg.SolutionPath, err)
	}
	defer sol.Close()
	bound := g.Bind(sol)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	secret := getenvOr("AUTH_HMAC_SECRET", "supersecret-dev-key")
	authSvc := auth.NewAuthService(secret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.OperatorUser, cfg.OperatorHash))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("submission:create")).
			Post("/submissions", api.SubmitHandler(bound, bs, st))

		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/results/{resultID}", api.GetResultHandler(st))

		// Operator-only: full rows including hidden counts and error notes
		pr.With(rbac.Require("result:view-all")).
			Get("/results", api.ListResultsHandler(st))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

func getenvOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

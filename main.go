package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/EmpoweredVote/demo-seeder/internal/config"
	"github.com/EmpoweredVote/demo-seeder/internal/db"
	"github.com/EmpoweredVote/demo-seeder/internal/fixtures"
	"github.com/EmpoweredVote/demo-seeder/internal/logging"
	"github.com/EmpoweredVote/demo-seeder/internal/middleware"
	"github.com/EmpoweredVote/demo-seeder/internal/seeding"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	cfg := config.Load(".env.local")
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	conn, err := db.Open(cfg, logger)
	if err != nil {
		logger.Fatalw("database unavailable", "error", err)
	}
	defer db.Close(conn)

	set, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		logger.Fatalw("could not load fixtures", "error", err)
	}

	seeder, err := seeding.New(conn, seeding.Options{
		Hasher:        seeding.BcryptHasher{Cost: cfg.BcryptCost},
		InvoicePolicy: cfg.InvoicePolicy,
		Concurrency:   cfg.Concurrency,
		Logger:        logger.Named("seed"),
	})
	if err != nil {
		logger.Fatalw("could not build seeder", "error", err)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)

	r.Mount("/seed", seeding.SetupRoutes(
		&seeding.Handler{Runner: seeder, Fixtures: set, Logger: logger.Named("http")},
		middleware.RateLimit(cfg.RateLimit),
	))

	logger.Infow("server listening", "port", cfg.Port, "invoice_policy", cfg.InvoicePolicy)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		logger.Fatalw("server stopped", "error", err)
	}
}

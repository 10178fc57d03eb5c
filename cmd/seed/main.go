package main

import (
	"context"
	"flag"
	"log"

	"github.com/EmpoweredVote/demo-seeder/internal/config"
	"github.com/EmpoweredVote/demo-seeder/internal/db"
	"github.com/EmpoweredVote/demo-seeder/internal/fixtures"
	"github.com/EmpoweredVote/demo-seeder/internal/logging"
	"github.com/EmpoweredVote/demo-seeder/internal/seeding"
)

func main() {
	cfg := config.Load(".env.local")

	var (
		dsn      = flag.String("dsn", cfg.DatabaseURL, "database connection string (default: env DATABASE_URL)")
		driver   = flag.String("driver", string(cfg.Driver), "pgx, pq or sqlite")
		path     = flag.String("fixtures", cfg.FixturesPath, "YAML fixtures file (default: embedded placeholder data)")
		policy   = flag.String("invoice-policy", string(cfg.InvoicePolicy), "append or skip-if-present")
		validate = flag.Bool("validate", false, "parse and validate fixtures only; no DB writes")
	)
	flag.Parse()

	cfg.DatabaseURL = *dsn
	cfg.Driver = config.Driver(*driver)
	cfg.FixturesPath = *path
	cfg.InvoicePolicy = config.InvoicePolicy(*policy)

	set, err := fixtures.Load(cfg.FixturesPath)
	if err != nil {
		log.Fatalf("❌ Fixtures invalid: %v", err)
	}
	if *validate {
		log.Printf("✅ Fixtures valid: %d users, %d customers, %d invoices, %d revenue",
			len(set.Users), len(set.Customers), len(set.Invoices), len(set.Revenue))
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	conn, err := db.Open(cfg, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer db.Close(conn)

	seeder, err := seeding.New(conn, seeding.Options{
		Hasher:        seeding.BcryptHasher{Cost: cfg.BcryptCost},
		InvoicePolicy: cfg.InvoicePolicy,
		Concurrency:   cfg.Concurrency,
		Logger:        logger.Named("seed"),
	})
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	summary, err := seeder.Run(context.Background(), set)
	if err != nil {
		logger.Errorw("seeding failed", "error", err)
		logger.Sync()
		db.Close(conn)
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Seeded users +%d, customers +%d, invoices +%d, revenue +%d in %s",
		summary.Users.Inserted, summary.Customers.Inserted, summary.Invoices.Inserted,
		summary.Revenue.Inserted, summary.Duration)
}

package seeding

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/EmpoweredVote/demo-seeder/internal/config"
	"github.com/EmpoweredVote/demo-seeder/internal/fixtures"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TableSummary counts what happened to one table's fixture rows.
type TableSummary struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Summary is returned by a successful Run.
type Summary struct {
	Users     TableSummary  `json:"users"`
	Customers TableSummary  `json:"customers"`
	Invoices  TableSummary  `json:"invoices"`
	Revenue   TableSummary  `json:"revenue"`
	Duration  time.Duration `json:"duration_ns"`
}

type Options struct {
	Hasher        Hasher
	InvoicePolicy config.InvoicePolicy
	// Concurrency bounds in-flight inserts (and password hashes) per table.
	Concurrency int
	Logger      *zap.SugaredLogger
}

// Seeder fills the demo tables from a fixture set inside one transaction.
type Seeder struct {
	db    *gorm.DB
	opts  Options
	steps []step
}

// New builds a Seeder over db. The handle is borrowed, never closed.
func New(db *gorm.DB, opts Options) (*Seeder, error) {
	if opts.Hasher == nil {
		opts.Hasher = BcryptHasher{Cost: config.DefaultBcryptCost}
	}
	if opts.InvoicePolicy == "" {
		opts.InvoicePolicy = config.InvoiceAppend
	}
	if err := opts.InvoicePolicy.Validate(); err != nil {
		return nil, err
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = config.DefaultConcurrency
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	s := &Seeder{db: db, opts: opts}
	steps, err := plan([]step{
		{name: "users", model: &User{}, seed: s.upsertUsers},
		{name: "customers", model: &Customer{}, seed: s.upsertCustomers},
		{name: "invoices", dependsOn: []string{"customers"}, model: &Invoice{}, seed: s.upsertInvoices},
		{name: "revenue", model: &Revenue{}, seed: s.upsertRevenue},
	})
	if err != nil {
		return nil, err
	}
	s.steps = steps
	return s, nil
}

// Run ensures every table exists and inserts every fixture row, all in one
// transaction. On failure nothing from this run is left behind and the
// returned error is a *SeedError.
func (s *Seeder) Run(ctx context.Context, set fixtures.Set) (Summary, error) {
	start := time.Now()
	log := s.opts.Logger

	if err := fixtures.Validate(set); err != nil {
		return Summary{}, newSeedError(KindFixture, StepValidate, err)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return Summary{}, newSeedError(KindTransport, StepBegin, tx.Error)
	}

	var (
		summary Summary
		err     error
	)
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	for _, st := range s.steps {
		var ts TableSummary
		ts, err = s.runStep(ctx, tx, st, set)
		if err != nil {
			break
		}
		summary.set(st.name, ts)
		log.Infow("seeded table", "table", st.name, "inserted", ts.Inserted, "skipped", ts.Skipped)
	}

	if err != nil {
		se := newSeedError(KindTransport, "", err)
		if rbErr := tx.Rollback().Error; rbErr != nil {
			log.Errorw("rollback failed", "error", rbErr)
			se.Err = errors.Join(se.Err, fmt.Errorf("rollback: %w", rbErr))
		}
		log.Errorw("seeding rolled back", "step", se.Step, "kind", se.Kind, "error", se.Err)
		return Summary{}, se
	}

	if err := tx.Commit().Error; err != nil {
		return Summary{}, newSeedError(KindTransport, StepCommit, err)
	}

	summary.Duration = time.Since(start)
	log.Infow("seeding committed", "duration", summary.Duration)
	return summary, nil
}

func (s *Seeder) runStep(ctx context.Context, tx *gorm.DB, st step, set fixtures.Set) (TableSummary, error) {
	if err := tx.Migrator().AutoMigrate(st.model); err != nil {
		return TableSummary{}, newSeedError(KindSchema, st.name, fmt.Errorf("create table %s: %w", st.name, err))
	}
	ts, err := st.seed(ctx, tx, set)
	if err != nil {
		return TableSummary{}, newSeedError(classify(err), st.name, err)
	}
	return ts, nil
}

func (s *Seeder) upsertUsers(ctx context.Context, tx *gorm.DB, set fixtures.Set) (TableSummary, error) {
	return insertAll(ctx, tx, s.opts.Concurrency, set.Users, func(tx *gorm.DB, r fixtures.UserRecord) (*gorm.DB, error) {
		hashed, err := s.opts.Hasher.Hash(r.Password)
		if err != nil {
			return nil, newSeedError(KindHashing, "users", fmt.Errorf("hash password for %s: %w", r.Email, err))
		}
		u := User{ID: r.ID, Name: r.Name, Email: r.Email, Password: hashed}
		return tx.Clauses(onConflictDoNothing("id")).Create(&u), nil
	})
}

func (s *Seeder) upsertCustomers(ctx context.Context, tx *gorm.DB, set fixtures.Set) (TableSummary, error) {
	return insertAll(ctx, tx, s.opts.Concurrency, set.Customers, func(tx *gorm.DB, r fixtures.CustomerRecord) (*gorm.DB, error) {
		c := Customer{ID: r.ID, Name: r.Name, Email: r.Email, ImageURL: r.ImageURL}
		return tx.Clauses(onConflictDoNothing("id")).Create(&c), nil
	})
}

// upsertInvoices has no natural conflict key, so what a re-run does is up to
// the InvoicePolicy.
func (s *Seeder) upsertInvoices(ctx context.Context, tx *gorm.DB, set fixtures.Set) (TableSummary, error) {
	if s.opts.InvoicePolicy == config.InvoiceSkipIfPresent {
		var existing int64
		if err := tx.Model(&Invoice{}).Count(&existing).Error; err != nil {
			return TableSummary{}, err
		}
		if existing > 0 {
			s.opts.Logger.Infow("invoices already present, skipping", "existing", existing)
			return TableSummary{Skipped: len(set.Invoices)}, nil
		}
	}

	return insertAll(ctx, tx, s.opts.Concurrency, set.Invoices, func(tx *gorm.DB, r fixtures.InvoiceRecord) (*gorm.DB, error) {
		date, err := r.ParsedDate()
		if err != nil {
			return nil, err
		}
		inv := Invoice{CustomerID: r.CustomerID, Amount: r.Amount, Status: r.Status, Date: date}
		return tx.Create(&inv), nil
	})
}

func (s *Seeder) upsertRevenue(ctx context.Context, tx *gorm.DB, set fixtures.Set) (TableSummary, error) {
	return insertAll(ctx, tx, s.opts.Concurrency, set.Revenue, func(tx *gorm.DB, r fixtures.RevenueRecord) (*gorm.DB, error) {
		rev := Revenue{Month: r.Month, Revenue: r.Revenue}
		return tx.Clauses(onConflictDoNothing("month")).Create(&rev), nil
	})
}

// insertAll runs insert for every record concurrently on tx. A result with
// RowsAffected == 0 is counted as skipped by the conflict clause.
func insertAll[R any](ctx context.Context, tx *gorm.DB, limit int, records []R, insert func(*gorm.DB, R) (*gorm.DB, error)) (TableSummary, error) {
	var inserted, skipped atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := insert(tx.WithContext(gctx), rec)
			if err != nil {
				return err
			}
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				skipped.Add(1)
			} else {
				inserted.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TableSummary{}, err
	}
	return TableSummary{Inserted: int(inserted.Load()), Skipped: int(skipped.Load())}, nil
}

func onConflictDoNothing(column string) clause.OnConflict {
	return clause.OnConflict{Columns: []clause.Column{{Name: column}}, DoNothing: true}
}

func (s *Summary) set(table string, ts TableSummary) {
	switch table {
	case "users":
		s.Users = ts
	case "customers":
		s.Customers = ts
	case "invoices":
		s.Invoices = ts
	case "revenue":
		s.Revenue = ts
	}
}

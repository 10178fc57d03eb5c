package seeding

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Kind tags a seeding failure with the layer that produced it.
type Kind string

const (
	KindFixture    Kind = "fixture"
	KindSchema     Kind = "schema"
	KindConstraint Kind = "constraint"
	KindHashing    Kind = "hashing"
	KindTransport  Kind = "transport"
)

// Step names used in errors for work that is not a table step.
const (
	StepValidate = "validate"
	StepBegin    = "begin"
	StepCommit   = "commit"
)

// SeedError is the only error type Run returns. The transaction has already
// been rolled back when a caller sees one.
type SeedError struct {
	Kind Kind
	Step string
	Err  error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("seed %s failed (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *SeedError) Unwrap() error { return e.Err }

func newSeedError(kind Kind, step string, err error) *SeedError {
	var se *SeedError
	if errors.As(err, &se) {
		return se
	}
	return &SeedError{Kind: kind, Step: step, Err: err}
}

// classify maps a database error from an insert to constraint or transport.
// SQLSTATE class 22 is data exceptions (bad uuid text, value too long),
// class 23 is integrity constraint violations.
func classify(err error) Kind {
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return KindConstraint
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 {
		switch pgErr.Code[:2] {
		case "22", "23":
			return KindConstraint
		}
		return KindTransport
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "22", "23":
			return KindConstraint
		}
		return KindTransport
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrConstraint, sqlite3.ErrMismatch, sqlite3.ErrTooBig:
			return KindConstraint
		}
		return KindTransport
	}

	return KindTransport
}

package seeding

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"gorm duplicate", gorm.ErrDuplicatedKey, KindConstraint},
		{"gorm foreign key", fmt.Errorf("insert: %w", gorm.ErrForeignKeyViolated), KindConstraint},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, KindConstraint},
		{"pgx bad uuid text", &pgconn.PgError{Code: "22P02"}, KindConstraint},
		{"pgx connection failure", &pgconn.PgError{Code: "08006"}, KindTransport},
		{"pq not null", &pq.Error{Code: "23502"}, KindConstraint},
		{"pq admin shutdown", &pq.Error{Code: "57P01"}, KindTransport},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, KindConstraint},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, KindTransport},
		{"plain", errors.New("broken pipe"), KindTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestSeedError_KeepsInnermostClassification(t *testing.T) {
	inner := newSeedError(KindHashing, "users", errors.New("bcrypt"))
	outer := newSeedError(KindTransport, "users", fmt.Errorf("group: %w", inner))

	assert.Same(t, inner, outer)
	assert.Equal(t, "seed users failed (hashing): bcrypt", outer.Error())
}

func TestRun_BeginFailureIsTransportError(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	refused := errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	mock.ExpectBegin().WillReturnError(refused)

	s, err := New(db, Options{})
	require.NoError(t, err)

	_, err = s.Run(context.Background(), amySet())

	var se *SeedError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindTransport, se.Kind)
	assert.Equal(t, StepBegin, se.Step)
	assert.ErrorIs(t, err, refused)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlan(t *testing.T) {
	names := func(steps []step) []string {
		var out []string
		for _, s := range steps {
			out = append(out, s.name)
		}
		return out
	}

	t.Run("dependency moves ahead of declaration order", func(t *testing.T) {
		ordered, err := plan([]step{
			{name: "invoices", dependsOn: []string{"customers"}},
			{name: "users"},
			{name: "customers"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"users", "customers", "invoices"}, names(ordered))
	})

	t.Run("cycle", func(t *testing.T) {
		_, err := plan([]step{
			{name: "a", dependsOn: []string{"b"}},
			{name: "b", dependsOn: []string{"a"}},
		})
		assert.ErrorContains(t, err, "cycle")
	})

	t.Run("unknown dependency", func(t *testing.T) {
		_, err := plan([]step{{name: "invoices", dependsOn: []string{"customers"}}})
		assert.ErrorContains(t, err, `unknown step "customers"`)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := plan([]step{{name: "users"}, {name: "users"}})
		assert.ErrorContains(t, err, "declared twice")
	})
}

package db

import (
	"testing"

	"github.com/EmpoweredVote/demo-seeder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.Config{DatabaseURL: ":memory:", Driver: config.DriverSQLite}

	gdb, err := Open(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { Close(gdb) })

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	assert.True(t, gdb.Config.TranslateError)

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_RejectsMissingURL(t *testing.T) {
	_, err := Open(config.Config{Driver: config.DriverSQLite}, zap.NewNop().Sugar())
	assert.ErrorIs(t, err, config.ErrMissingDatabaseURL)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.Config{DatabaseURL: "x", Driver: "oracle"}, zap.NewNop().Sugar())
	assert.ErrorIs(t, err, config.ErrUnknownDriver)
}

func TestWithSearchPath(t *testing.T) {
	tests := []struct {
		name   string
		dsn    string
		schema string
		want   string
	}{
		{"no schema", "postgres://u:p@localhost/demo", "", "postgres://u:p@localhost/demo"},
		{"url", "postgres://u:p@localhost/demo?sslmode=disable", "dash", "postgres://u:p@localhost/demo?search_path=dash&sslmode=disable"},
		{"postgresql scheme", "postgresql://localhost/demo", "dash", "postgresql://localhost/demo?search_path=dash"},
		{"key value", "host=localhost dbname=demo ", "dash", "host=localhost dbname=demo search_path=dash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withSearchPath(tt.dsn, tt.schema))
		})
	}
}

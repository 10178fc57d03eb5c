package db

import (
	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
)

// EnsureSchema creates a postgres schema when it does not exist yet.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS ` + pgx.Identifier{schema}.Sanitize()).Error
}

package db

import (
	"context"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CreateTestPool connects to TEST_POSTGRESQL_URL. It returns ok=false when
// the variable is not set so callers can skip.
func CreateTestPool() (pool *pgxpool.Pool, ok bool) {
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		return nil, false
	}
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		panic("TEST_MIGRATIONS_PATH must be set.")
	}
	if err := ApplyMigrations(connString, migrationsPath); err != nil {
		panic(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		panic("Could not connect to the database.")
	}
	return pool, true
}

func TruncateTables(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE key_value")
	if err != nil {
		panic("Could not truncate DB tables.")
	}
}

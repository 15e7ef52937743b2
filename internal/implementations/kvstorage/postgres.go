package kvstorage

import (
	e "apptreminder/internal/core/domain/errors"
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

const (
	postgresGet = `SELECT value FROM key_value WHERE key = $1`

	postgresSet = `INSERT INTO key_value (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	postgresDelete = `DELETE FROM key_value WHERE key = $1`
)

type Postgres struct {
	db DBTX
}

func NewPostgres(db DBTX) *Postgres {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = p.db.QueryRow(ctx, postgresGet, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value string) error {
	_, err := p.db.Exec(ctx, postgresSet, key, value)
	return err
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, postgresDelete, key)
	return err
}

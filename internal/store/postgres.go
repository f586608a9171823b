package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresStore keeps each collection as one jsonb row.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) (*PostgresStore, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS app_state (
			name       TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("create app_state table: %w", err)
	}
	log.Info("postgres store ready")
	return &PostgresStore{pool: pool, log: log}, nil
}

func (s *PostgresStore) Load(ctx context.Context, key string, dest any) (bool, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM app_state WHERE name = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

func (s *PostgresStore) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO app_state (name, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = now()
	`, key, data)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM app_state WHERE name = $1`, key)
	return err
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM app_state`)
	return err
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

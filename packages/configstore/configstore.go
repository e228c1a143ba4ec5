package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the slice of a pgx pool the store needs
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store looks up per-installation bot configuration. The dashboard web app
// owns the table; the bot only ever reads it.
type Store struct {
	db Querier
}

// New wraps an existing connection pool
func New(db Querier) *Store {
	return &Store{db: db}
}

// Connect opens a pool against the bot config database. An empty dsn yields
// a store whose lookups return the empty list, so the bot runs without the
// dashboard.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		slog.Info("No bot config database configured, default models will be used")
		return &Store{}, nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bot config database: %w", err)
	}
	return &Store{db: pool}, nil
}

// PreferredModels returns the ordered model identifiers configured for an
// installation. model_name holds a JSON-encoded array; missing rows, null
// values and unparseable payloads all read as "no preference".
func (s *Store) PreferredModels(ctx context.Context, installationID int64) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}

	var raw *string
	err := s.db.QueryRow(ctx,
		`SELECT model_name FROM bot_configs WHERE installation_id = $1`,
		installationID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bot config: %w", err)
	}

	if raw == nil || *raw == "" {
		return nil, nil
	}

	var models []string
	if err := json.Unmarshal([]byte(*raw), &models); err != nil {
		slog.Warn("Unparseable model_name in bot config", "installationID", installationID)
		return nil, nil
	}
	return models, nil
}

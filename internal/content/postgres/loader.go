package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"cellquest-service/internal/domain"
)

// Loader reads activity JSONB from Postgres.
type Loader struct {
	pool *pgxpool.Pool
}

func NewLoader(pool *pgxpool.Pool) *Loader {
	return &Loader{pool: pool}
}

func (l *Loader) LoadActivity(ctx context.Context, activityID string) (domain.Activity, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM activities WHERE id=$1`, activityID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	if err != nil {
		return domain.Activity{}, fmt.Errorf("load activity: %w", err)
	}
	var activity domain.Activity
	if err := json.Unmarshal(raw, &activity); err != nil {
		return domain.Activity{}, fmt.Errorf("unmarshal activity: %w", err)
	}
	return activity, nil
}

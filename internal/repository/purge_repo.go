package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"client-recovery/internal/model"
)

type PurgeRepository struct {
	pool *pgxpool.Pool
}

func NewPurgeRepository(pool *pgxpool.Pool) *PurgeRepository {
	return &PurgeRepository{pool: pool}
}

// Find returns the purge record for a client, or nil when the client was
// never purged. "No purge yet" and "purge lookup failed" stay distinct:
// absence is a nil record with a nil error, failure is a non-nil error.
func (r *PurgeRepository) Find(ctx context.Context, clientID string) (*model.PurgeRecord, error) {
	var rec model.PurgeRecord
	var purgedAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT purged_at, purged_by, purge_reason
		 FROM purge_log
		 WHERE client_id = $1`, clientID).
		Scan(&purgedAt, &rec.PurgedBy, &rec.PurgeReason)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch purge record: %w", err)
	}
	rec.PurgedAt = purgedAt.UTC()
	return &rec, nil
}

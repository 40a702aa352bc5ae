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

type RestorationRepository struct {
	pool *pgxpool.Pool
}

func NewRestorationRepository(pool *pgxpool.Pool) *RestorationRepository {
	return &RestorationRepository{pool: pool}
}

// DeletionCycles returns every completed delete-then-restore round trip
// for a client, ordered by restoration time ascending.
func (r *RestorationRepository) DeletionCycles(ctx context.Context, clientID string) ([]model.DeletionCycle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT deleted_at, deleted_by, deletion_reason, restored_at, restored_by, restoration_reason
		 FROM restoration_log
		 WHERE client_id = $1
		 ORDER BY restored_at ASC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("fetch deletion cycles: %w", err)
	}
	defer rows.Close()

	cycles := make([]model.DeletionCycle, 0)
	for rows.Next() {
		var c model.DeletionCycle
		var deletedAt, restoredAt time.Time
		if err := rows.Scan(&deletedAt, &c.DeletedBy, &c.DeletionReason,
			&restoredAt, &c.RestoredBy, &c.RestorationReason); err != nil {
			return nil, fmt.Errorf("scan deletion cycle: %w", err)
		}
		c.DeletedAt = deletedAt.UTC()
		c.RestoredAt = restoredAt.UTC()
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// LatestRestoration returns the most recent delete-then-restore round trip
// for a client. With multiple restorations on record the later one wins;
// that selection lives entirely in the ORDER BY restored_at DESC LIMIT 1
// below, the caller receives exactly one cycle. A client that was never
// restored maps to pgx.ErrNoRows wrapped as model.ErrClientNotFound.
func (r *RestorationRepository) LatestRestoration(ctx context.Context, clientID string) (model.DeletionCycle, error) {
	var c model.DeletionCycle
	var deletedAt, restoredAt time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT deleted_at, deleted_by, deletion_reason, restored_at, restored_by, restoration_reason
		 FROM restoration_log
		 WHERE client_id = $1
		 ORDER BY restored_at DESC
		 LIMIT 1`, clientID).
		Scan(&deletedAt, &c.DeletedBy, &c.DeletionReason,
			&restoredAt, &c.RestoredBy, &c.RestorationReason)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.DeletionCycle{}, model.ErrClientNotFound
	}
	if err != nil {
		return model.DeletionCycle{}, fmt.Errorf("fetch latest restoration: %w", err)
	}
	c.DeletedAt = deletedAt.UTC()
	c.RestoredAt = restoredAt.UTC()
	return c, nil
}

// History returns the full restoration log across all clients, most recent
// restoration first.
func (r *RestorationRepository) History(ctx context.Context) ([]model.RestorationRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT restoration_id, client_id, company_name,
		        restored_at, restored_by, restoration_reason,
		        deleted_at, deleted_by, deletion_reason
		 FROM restoration_log
		 ORDER BY restored_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("fetch restoration history: %w", err)
	}
	defer rows.Close()

	records := make([]model.RestorationRecord, 0)
	for rows.Next() {
		var rec model.RestorationRecord
		var restoredAt, deletedAt time.Time
		if err := rows.Scan(&rec.RestorationID, &rec.ClientID, &rec.CompanyName,
			&restoredAt, &rec.RestoredBy, &rec.RestorationReason,
			&deletedAt, &rec.DeletedBy, &rec.DeletionReason); err != nil {
			return nil, fmt.Errorf("scan restoration record: %w", err)
		}
		rec.RestoredAt = restoredAt.UTC()
		rec.DeletedAt = deletedAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

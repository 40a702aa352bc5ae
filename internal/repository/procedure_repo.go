package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"client-recovery/internal/model"
)

// ProcedureRepository calls the lifecycle stored procedures. Restore and
// purge are single atomic round trips; this layer does no rollback and
// simply reports the procedure's own success/error outcome.
type ProcedureRepository struct {
	pool *pgxpool.Pool
}

func NewProcedureRepository(pool *pgxpool.Pool) *ProcedureRepository {
	return &ProcedureRepository{pool: pool}
}

func (r *ProcedureRepository) RestoreClient(ctx context.Context, clientID string, restoredBy string, reason string) (model.ProcedureResult, error) {
	return r.callJSON(ctx,
		`SELECT restore_client($1, $2, $3)`, clientID, restoredBy, reason)
}

func (r *ProcedureRepository) PurgeClient(ctx context.Context, clientID string, purgedBy string, reason string) (model.ProcedureResult, error) {
	return r.callJSON(ctx,
		`SELECT immediate_purge_client($1, $2, $3)`, clientID, purgedBy, reason)
}

// NotifyRestoration fans restoration notifications out to the team.
// Best-effort by contract: the caller must not treat a failure here as a
// restoration failure.
func (r *ProcedureRepository) NotifyRestoration(ctx context.Context, clientID string, companyName string, restoredBy string, reason string) error {
	_, err := r.pool.Exec(ctx,
		`SELECT create_restoration_notifications($1, $2, $3, $4)`,
		clientID, companyName, restoredBy, reason)
	if err != nil {
		return fmt.Errorf("create restoration notifications: %w", err)
	}
	return nil
}

func (r *ProcedureRepository) callJSON(ctx context.Context, query string, args ...any) (model.ProcedureResult, error) {
	var raw []byte
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		return model.ProcedureResult{}, fmt.Errorf("call lifecycle procedure: %w", err)
	}

	var result model.ProcedureResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return model.ProcedureResult{}, fmt.Errorf("decode procedure result: %w", err)
	}
	return result, nil
}

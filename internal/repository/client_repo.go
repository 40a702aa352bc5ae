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

type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// AccountRecord fetches the core row for one client: creation timestamp
// plus the current deletion state. A missing row maps to
// model.ErrClientNotFound; callers decide whether absence is an error.
func (r *ClientRepository) AccountRecord(ctx context.Context, clientID string) (model.AccountRecord, error) {
	var rec model.AccountRecord
	err := r.pool.QueryRow(ctx,
		`SELECT client_id, company_name, created_at, deleted_at, deleted_by, deletion_reason, purge_at
		 FROM clients
		 WHERE client_id = $1`, clientID).
		Scan(&rec.ClientID, &rec.CompanyName, &rec.CreatedAt,
			&rec.DeletedAt, &rec.DeletedBy, &rec.DeletionReason, &rec.PurgeAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.AccountRecord{}, model.ErrClientNotFound
	}
	if err != nil {
		return model.AccountRecord{}, fmt.Errorf("fetch account record: %w", err)
	}
	return rec, nil
}

// ListDeleted returns all currently soft-deleted clients, most recently
// deleted first. purge_at is always set while a client is deleted.
func (r *ClientRepository) ListDeleted(ctx context.Context) ([]model.DeletedAccount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT client_id, company_name, deleted_at, deleted_by, deletion_reason, purge_at
		 FROM clients
		 WHERE deleted_at IS NOT NULL
		 ORDER BY deleted_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list deleted clients: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.DeletedAccount, 0)
	for rows.Next() {
		var acc model.DeletedAccount
		var deletedAt, purgeAt time.Time
		if err := rows.Scan(&acc.ClientID, &acc.CompanyName, &deletedAt,
			&acc.DeletedBy, &acc.DeletionReason, &purgeAt); err != nil {
			return nil, fmt.Errorf("scan deleted client: %w", err)
		}
		acc.DeletedAt = deletedAt.UTC()
		acc.PurgeAt = purgeAt.UTC()
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

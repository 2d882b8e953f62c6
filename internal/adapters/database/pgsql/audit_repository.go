package pgsql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veltapay/velta_backend/internal/core/domain"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new repository for administrator audit records.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

var _ portsrepo.AuditRepository = (*AuditRepository)(nil)

func (r *AuditRepository) SaveAuditRecord(ctx context.Context, record domain.AuditRecord) error {
	details, err := json.Marshal(record.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
        INSERT INTO audit_records (record_id, action, actor_id, target_account_id, details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err = r.pool.Exec(ctx, query,
		record.RecordID,
		record.Action,
		record.ActorID,
		record.TargetAccountID,
		details,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save audit record: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListAuditRecords(ctx context.Context, limit int, offset int) ([]domain.AuditRecord, error) {
	limit, offset = clampPage(limit, offset)
	query := `
        SELECT record_id, action, actor_id, target_account_id, details, created_at
        FROM audit_records
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2;
    `
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	records := []domain.AuditRecord{}
	for rows.Next() {
		var record domain.AuditRecord
		var details []byte
		err := rows.Scan(
			&record.RecordID,
			&record.Action,
			&record.ActorID,
			&record.TargetAccountID,
			&details,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit record row: %w", err)
		}
		if err := json.Unmarshal(details, &record.Details); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit details for %s: %w", record.RecordID, err)
		}
		records = append(records, record)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating audit record rows: %w", rows.Err())
	}
	return records, nil
}

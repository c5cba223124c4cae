package repository

import (
	"context"

	"sales_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// insertStatusEntry appends one row to the lead's status audit trail within
// the caller's transaction. The trail is append-only; rows are never
// rewritten or deleted.
func insertStatusEntry(ctx context.Context, tx pgx.Tx, entry domain.StatusChangeEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO lead_status_log (
			lead_id, previous_status, new_status, reason, changed_at,
			changed_by_user_id, changed_by_user_name, system_generated
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.LeadID, entry.PreviousStatus, entry.NewStatus, entry.Reason,
		entry.ChangedAt, entry.ChangedByUserID, entry.ChangedByUserName, entry.SystemGenerated)
	return err
}

// ListStatusLog returns the lead's status history in chronological order.
func (r *Repository) ListStatusLog(ctx context.Context, leadID uuid.UUID) ([]domain.StatusChangeEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lead_id, previous_status, new_status, reason, changed_at,
			changed_by_user_id, changed_by_user_name, system_generated
		FROM lead_status_log
		WHERE lead_id = $1
		ORDER BY changed_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.StatusChangeEntry, 0)
	for rows.Next() {
		var entry domain.StatusChangeEntry
		if err := rows.Scan(
			&entry.LeadID, &entry.PreviousStatus, &entry.NewStatus, &entry.Reason,
			&entry.ChangedAt, &entry.ChangedByUserID, &entry.ChangedByUserName,
			&entry.SystemGenerated,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

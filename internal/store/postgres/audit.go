package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprocure/api/internal/audit"
	"github.com/lexprocure/api/internal/models"
)

type AuditStore struct {
	db *pgxpool.Pool
}

// Insert appends one row. There is deliberately no update or delete path.
func (s *AuditStore) Insert(ctx context.Context, entry *models.AuditLog) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO audit_logs (entity_type, entity_id, action, performed_by, changes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		entry.EntityType, entry.EntityID, entry.Action, entry.PerformedBy, entry.Changes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (s *AuditStore) List(ctx context.Context, q audit.Query) ([]models.AuditLog, int, error) {
	var conditions []string
	var args []interface{}
	argIdx := 1

	if q.EntityType != "" {
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", argIdx))
		args = append(args, q.EntityType)
		argIdx++
	}
	if q.EntityID != nil {
		conditions = append(conditions, fmt.Sprintf("entity_id = $%d", argIdx))
		args = append(args, *q.EntityID)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRow(ctx,
		"SELECT count(*) FROM audit_logs "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, entity_type, entity_id, action, performed_by, changes, created_at
		 FROM audit_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var items []models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action,
			&e.PerformedBy, &e.Changes, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

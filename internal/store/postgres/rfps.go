package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprocure/api/internal/models"
	"github.com/lexprocure/api/internal/rfp"
)

const rfpColumns = "id, title, description, budget, status, due_date, created_by, created_at, updated_at"

type RfpStore struct {
	db *pgxpool.Pool
}

func (s *RfpStore) Create(ctx context.Context, r *models.Rfp) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO rfps (title, description, budget, status, due_date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		r.Title, r.Description, r.Budget, r.Status, r.DueDate, r.CreatedBy,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (s *RfpStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Rfp, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		"SELECT "+rfpColumns+" FROM rfps WHERE id = $1", id))
}

func (s *RfpStore) GetByTitleAndCreator(ctx context.Context, title string, createdBy uuid.UUID) (*models.Rfp, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		"SELECT "+rfpColumns+" FROM rfps WHERE title = $1 AND created_by = $2 AND status != $3",
		title, createdBy, models.RfpStatusDeleted))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *RfpStore) scanOne(row rowScanner) (*models.Rfp, error) {
	var r models.Rfp
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Budget, &r.Status,
		&r.DueDate, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// List filters, counts and pages in two statements built from the same WHERE
// clause. Deleted rows never surface here.
func (s *RfpStore) List(ctx context.Context, f rfp.Filter) ([]models.Rfp, int, error) {
	conditions := []string{"status != $1"}
	args := []interface{}{models.RfpStatusDeleted}
	argIdx := 2

	if f.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, f.Status)
		argIdx++
	}
	if f.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"to_tsvector('english', title || ' ' || description) @@ plainto_tsquery('english', $%d)", argIdx))
		args = append(args, f.Search)
		argIdx++
	}
	if f.MinBudget != nil {
		conditions = append(conditions, fmt.Sprintf("budget >= $%d", argIdx))
		args = append(args, *f.MinBudget)
		argIdx++
	}
	if f.MaxBudget != nil {
		conditions = append(conditions, fmt.Sprintf("budget <= $%d", argIdx))
		args = append(args, *f.MaxBudget)
		argIdx++
	}
	if f.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("due_date >= $%d", argIdx))
		args = append(args, *f.StartDate)
		argIdx++
	}
	if f.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("due_date <= $%d", argIdx))
		args = append(args, *f.EndDate)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	var total int
	if err := s.db.QueryRow(ctx,
		"SELECT count(*) FROM rfps "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count rfps: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT "+rfpColumns+" FROM rfps %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query rfps: %w", err)
	}
	defer rows.Close()

	var items []models.Rfp
	for rows.Next() {
		var r models.Rfp
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Budget, &r.Status,
			&r.DueDate, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan rfp: %w", err)
		}
		items = append(items, r)
	}
	return items, total, rows.Err()
}

// Update is one conditional UPDATE ... RETURNING. Unset fields keep their prior
// value through COALESCE; when a status change is requested the row must
// currently sit in an allowed predecessor state or no row matches.
func (s *RfpStore) Update(ctx context.Context, id uuid.UUID, upd rfp.Update) (*models.Rfp, error) {
	var status *string
	var allowedPrior []string
	if upd.Status != nil {
		v := string(*upd.Status)
		status = &v
		for _, prior := range upd.Status.AllowedPriorStatuses() {
			allowedPrior = append(allowedPrior, string(prior))
		}
	}

	return s.scanOne(s.db.QueryRow(ctx,
		`UPDATE rfps SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			budget      = COALESCE($4, budget),
			due_date    = COALESCE($5, due_date),
			status      = COALESCE($6, status),
			updated_at  = now()
		 WHERE id = $1
		   AND status != 'DELETED'
		   AND ($6::text IS NULL OR status = ANY($7::text[]))
		 RETURNING `+rfpColumns,
		id, upd.Title, upd.Description, upd.Budget, upd.DueDate, status, allowedPrior))
}

// SoftDelete is the guarded transition to DELETED. A second call matches no row
// and comes back NotFound, which is exactly what callers surface.
func (s *RfpStore) SoftDelete(ctx context.Context, id uuid.UUID) (*models.Rfp, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`UPDATE rfps SET status = $2, updated_at = now()
		 WHERE id = $1 AND status != $2
		 RETURNING `+rfpColumns,
		id, models.RfpStatusDeleted))
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/models"
)

type CommentStore struct {
	db *pgxpool.Pool
}

func (s *CommentStore) Create(ctx context.Context, c *models.Comment) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO comments (entity_type, entity_id, content, created_by)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.EntityType, c.EntityID, c.Content, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (s *CommentStore) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, entity_type, entity_id, content, created_by, created_at
		 FROM comments WHERE entity_id = $1 ORDER BY created_at`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.EntityType, &c.EntityID, &c.Content,
			&c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM comments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("no rows")
	}
	return nil
}

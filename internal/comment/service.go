// Package comment handles entity-scoped discussion threads on RFPs and
// proposals.
package comment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/models"
)

type Store interface {
	Create(ctx context.Context, c *models.Comment) error
	ListByEntity(ctx context.Context, entityID uuid.UUID) ([]models.Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type CreateRequest struct {
	EntityType string    `json:"entity_type"`
	EntityID   uuid.UUID `json:"entity_id"`
	Content    string    `json:"content"`
}

func (r *CreateRequest) Validate() error {
	if !models.EntityType(r.EntityType).Valid() {
		return apperr.Validation("Invalid body request")
	}
	if r.EntityID == uuid.Nil {
		return apperr.Validation("Invalid body request")
	}
	if r.Content == "" {
		return apperr.Validation("Message cannot be empty")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req CreateRequest) (*models.Comment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &models.Comment{
		EntityType: models.EntityType(req.EntityType),
		EntityID:   req.EntityID,
		Content:    req.Content,
		CreatedBy:  createdBy,
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *Service) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]models.Comment, error) {
	items, err := s.store.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return items, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.NotFound("Comment not found")
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

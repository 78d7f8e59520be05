// Package audit appends an immutable record for every state-changing operation.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/models"
)

type Store interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, q Query) ([]models.AuditLog, int, error)
}

// RetryEnqueuer hands a failed write to a durable queue. Optional: a nil enqueuer
// downgrades the writer to log-only best effort.
type RetryEnqueuer interface {
	EnqueueAuditRecord(entry models.AuditLog) error
}

type Service struct {
	store   Store
	retries RetryEnqueuer
}

func NewService(store Store, retries RetryEnqueuer) *Service {
	return &Service{store: store, retries: retries}
}

type Entry struct {
	EntityType  models.EntityType
	EntityID    uuid.UUID
	Action      models.AuditAction
	PerformedBy uuid.UUID
	Changes     interface{}
}

// Record appends one audit entry. It never fails the caller: the resource
// mutation it describes is already committed, so a write failure is logged and
// queued for retry instead of propagating.
func (s *Service) Record(ctx context.Context, e Entry) {
	var changes json.RawMessage
	if e.Changes != nil {
		data, err := json.Marshal(e.Changes)
		if err != nil {
			slog.Error("marshal audit changes", "entity_id", e.EntityID, "error", err)
		} else {
			changes = data
		}
	}

	entry := &models.AuditLog{
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Action:      e.Action,
		PerformedBy: e.PerformedBy,
		Changes:     changes,
	}

	err := s.store.Insert(ctx, entry)
	if err == nil {
		return
	}
	slog.Error("audit write failed",
		"entity_type", entry.EntityType, "entity_id", entry.EntityID,
		"action", entry.Action, "error", err)

	if s.retries == nil {
		return
	}
	if err := s.retries.EnqueueAuditRecord(*entry); err != nil {
		slog.Error("enqueue audit retry failed", "entity_id", entry.EntityID, "error", err)
	}
}

type Query struct {
	EntityType string
	EntityID   *uuid.UUID
	Page       int
	Limit      int
}

func (q *Query) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}
}

type Page struct {
	Items      []models.AuditLog `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// List returns audit entries newest first, filtered and paginated.
func (s *Service) List(ctx context.Context, q Query) (*Page, error) {
	q.Normalize()

	items, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	pages := (total + q.Limit - 1) / q.Limit
	return &Page{
		Items:      items,
		Pagination: Pagination{Total: total, Page: q.Page, Pages: pages},
	}, nil
}

package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexprocure/api/internal/models"
)

type memAuditStore struct {
	mu      sync.Mutex
	entries []models.AuditLog
	failing bool
}

func (s *memAuditStore) Insert(_ context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store down")
	}
	entry.ID = uuid.New()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *memAuditStore) List(_ context.Context, q Query) ([]models.AuditLog, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filtered []models.AuditLog
	for _, e := range s.entries {
		if q.EntityType != "" && string(e.EntityType) != q.EntityType {
			continue
		}
		if q.EntityID != nil && e.EntityID != *q.EntityID {
			continue
		}
		filtered = append(filtered, e)
	}

	total := len(filtered)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

type memEnqueuer struct {
	mu      sync.Mutex
	queued  []models.AuditLog
	failing bool
}

func (e *memEnqueuer) EnqueueAuditRecord(entry models.AuditLog) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failing {
		return errors.New("queue down")
	}
	e.queued = append(e.queued, entry)
	return nil
}

func TestService_Record_AppendsOneEntry(t *testing.T) {
	t.Parallel()

	store := &memAuditStore{}
	svc := NewService(store, nil)

	actor := uuid.New()
	entity := uuid.New()
	svc.Record(context.Background(), Entry{
		EntityType:  models.EntityTypeRfp,
		EntityID:    entity,
		Action:      models.AuditActionCreate,
		PerformedBy: actor,
		Changes:     map[string]interface{}{"title": "Website redesign RFP"},
	})

	require.Len(t, store.entries, 1)
	got := store.entries[0]
	assert.Equal(t, models.EntityTypeRfp, got.EntityType)
	assert.Equal(t, entity, got.EntityID)
	assert.Equal(t, models.AuditActionCreate, got.Action)
	assert.Equal(t, actor, got.PerformedBy)
	assert.JSONEq(t, `{"title":"Website redesign RFP"}`, string(got.Changes))
}

func TestService_Record_FailureEnqueuesRetry(t *testing.T) {
	t.Parallel()

	store := &memAuditStore{failing: true}
	queue := &memEnqueuer{}
	svc := NewService(store, queue)

	// Must not panic or surface the error to the caller.
	svc.Record(context.Background(), Entry{
		EntityType:  models.EntityTypeProposal,
		EntityID:    uuid.New(),
		Action:      models.AuditActionAccept,
		PerformedBy: uuid.New(),
	})

	assert.Empty(t, store.entries)
	require.Len(t, queue.queued, 1)
	assert.Equal(t, models.AuditActionAccept, queue.queued[0].Action)
}

func TestService_Record_FailureWithoutQueueIsNonFatal(t *testing.T) {
	t.Parallel()

	store := &memAuditStore{failing: true}
	svc := NewService(store, nil)

	svc.Record(context.Background(), Entry{
		EntityType: models.EntityTypeRfp,
		EntityID:   uuid.New(),
		Action:     models.AuditActionDelete,
	})

	assert.Empty(t, store.entries)
}

func TestService_List_FiltersAndPaginates(t *testing.T) {
	t.Parallel()

	store := &memAuditStore{}
	svc := NewService(store, nil)
	ctx := context.Background()

	rfpID := uuid.New()
	for i := 0; i < 3; i++ {
		svc.Record(ctx, Entry{EntityType: models.EntityTypeRfp, EntityID: rfpID, Action: models.AuditActionUpdate, PerformedBy: uuid.New()})
	}
	svc.Record(ctx, Entry{EntityType: models.EntityTypeProposal, EntityID: uuid.New(), Action: models.AuditActionCreate, PerformedBy: uuid.New()})

	page, err := svc.List(ctx, Query{EntityType: "RFP", EntityID: &rfpID, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)

	// Defaults applied when page/limit are unset.
	page, err = svc.List(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Pagination.Page)
	assert.Equal(t, 4, page.Pagination.Total)
}

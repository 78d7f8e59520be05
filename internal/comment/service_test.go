package comment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/models"
)

type memStore struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*models.Comment
}

func newMemStore() *memStore {
	return &memStore{comments: make(map[uuid.UUID]*models.Comment)}
}

func (s *memStore) Create(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	s.comments[c.ID] = &cp
	return nil
}

func (s *memStore) ListByEntity(_ context.Context, entityID uuid.UUID) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.EntityID == entityID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return apperr.NotFound("no rows")
	}
	delete(s.comments, id)
	return nil
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore())
	author := uuid.New()
	entity := uuid.New()

	c, err := svc.Create(context.Background(), author, CreateRequest{
		EntityType: "RFP",
		EntityID:   entity,
		Content:    "Please clarify the delivery timeline.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EntityTypeRfp, c.EntityType)
	assert.Equal(t, author, c.CreatedBy)
	assert.NotEqual(t, uuid.Nil, c.ID)
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore())
	entity := uuid.New()

	tests := []struct {
		name    string
		req     CreateRequest
		message string
	}{
		{"bad entity type", CreateRequest{EntityType: "INVOICE", EntityID: entity, Content: "hi"}, "Invalid body request"},
		{"missing entity id", CreateRequest{EntityType: "RFP", Content: "hi"}, "Invalid body request"},
		{"empty content", CreateRequest{EntityType: "PROPOSAL", EntityID: entity}, "Message cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), uuid.New(), tt.req)
			require.True(t, apperr.IsKind(err, apperr.KindValidation))
			assert.Equal(t, tt.message, apperr.FromError(err).Message)
		})
	}
}

func TestService_ListByEntity(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore())
	entity := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
			EntityType: "RFP", EntityID: entity, Content: "note",
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		EntityType: "RFP", EntityID: uuid.New(), Content: "other thread",
	})
	require.NoError(t, err)

	items, err := svc.ListByEntity(context.Background(), entity)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	svc := NewService(newMemStore())

	c, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		EntityType: "PROPOSAL", EntityID: uuid.New(), Content: "to be removed",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), c.ID))

	err = svc.Delete(context.Background(), c.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

package proposal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/audit"
	"github.com/lexprocure/api/internal/models"
)

type memStore struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]*models.Proposal
}

func newMemStore() *memStore {
	return &memStore{proposals: make(map[uuid.UUID]*models.Proposal)}
}

func (s *memStore) Create(_ context.Context, p *models.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	s.proposals[p.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, apperr.NotFound("no rows")
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) ListByRfp(_ context.Context, rfpID uuid.UUID) ([]models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Proposal
	for _, p := range s.proposals {
		if p.RfpID == rfpID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, upd Update) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok || p.Status.Terminal() {
		return nil, apperr.NotFound("no rows")
	}
	if upd.EstimatedCost != nil {
		p.EstimatedCost = *upd.EstimatedCost
	}
	if upd.Experience != nil {
		p.Experience = *upd.Experience
	}
	if upd.Details != nil {
		p.Details = *upd.Details
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) Accept(_ context.Context, id uuid.UUID) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok || p.Status != models.ProposalStatusSubmitted {
		return nil, apperr.NotFound("no rows")
	}
	p.Status = models.ProposalStatusAccepted
	cp := *p
	return &cp, nil
}

func (s *memStore) SoftDelete(_ context.Context, id uuid.UUID) (*models.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok || p.Status == models.ProposalStatusDeleted {
		return nil, apperr.NotFound("no rows")
	}
	p.Status = models.ProposalStatusDeleted
	cp := *p
	return &cp, nil
}

type memRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *memRecorder) Record(_ context.Context, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func newTestService() (*Service, *memStore, *memRecorder) {
	store := newMemStore()
	rec := &memRecorder{}
	return NewService(store, rec), store, rec
}

func testActor() *models.User {
	return &models.User{
		ID:             uuid.New(),
		Role:           models.RoleNormalUser,
		OrganisationID: uuid.New(),
	}
}

func validCreate() CreateRequest {
	return CreateRequest{
		RfpID:         uuid.New(),
		EstimatedCost: 12000,
		Experience:    "Ten years of procurement litigation",
		Details:       "Fixed fee, two partners",
	}
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	svc, _, rec := newTestService()
	actor := testActor()

	p, err := svc.Create(context.Background(), actor, validCreate())
	require.NoError(t, err)

	assert.Equal(t, models.ProposalStatusSubmitted, p.Status)
	assert.Equal(t, actor.OrganisationID, p.OrganisationID)
	assert.Equal(t, actor.ID, p.CreatedBy)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, models.EntityTypeProposal, rec.entries[0].EntityType)
	assert.Equal(t, models.AuditActionCreate, rec.entries[0].Action)
	assert.Equal(t, p.ID, rec.entries[0].EntityID)
}

func TestService_Create_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	ctx := context.Background()
	actor := testActor()

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
	}{
		{"missing rfp id", func(r *CreateRequest) { r.RfpID = uuid.Nil }},
		{"negative cost", func(r *CreateRequest) { r.EstimatedCost = -1 }},
		{"experience too short", func(r *CreateRequest) { r.Experience = "no" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := validCreate()
			tt.mutate(&req)
			_, err := svc.Create(ctx, actor, req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.FromError(err).Kind)
		})
	}
}

func TestService_Update_TerminalIsConflict(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	actor := testActor()
	ctx := context.Background()

	p, err := svc.Create(ctx, actor, validCreate())
	require.NoError(t, err)
	_, err = svc.Accept(ctx, p.ID, actor.ID)
	require.NoError(t, err)

	cost := 9000.0
	_, err = svc.Update(ctx, p.ID, actor.ID, Update{EstimatedCost: &cost})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.FromError(err).Kind)

	// Unknown id stays NotFound.
	_, err = svc.Update(ctx, uuid.New(), actor.ID, Update{EstimatedCost: &cost})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.FromError(err).Kind)
}

func TestService_Accept(t *testing.T) {
	t.Parallel()

	svc, _, rec := newTestService()
	actor := testActor()
	ctx := context.Background()

	p, err := svc.Create(ctx, actor, validCreate())
	require.NoError(t, err)

	accepted, err := svc.Accept(ctx, p.ID, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusAccepted, accepted.Status)

	// ACCEPTED is terminal: a second accept is a Conflict, not a silent no-op.
	_, err = svc.Accept(ctx, p.ID, actor.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.FromError(err).Kind)

	// Unknown id is NotFound.
	_, err = svc.Accept(ctx, uuid.New(), actor.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.FromError(err).Kind)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, models.AuditActionAccept, rec.entries[1].Action)
}

func TestService_Accept_Concurrent(t *testing.T) {
	t.Parallel()

	svc, _, rec := newTestService()
	actor := testActor()
	ctx := context.Background()

	p, err := svc.Create(ctx, actor, validCreate())
	require.NoError(t, err)

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, p.ID, actor.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one accept must win")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Len(t, rec.entries, 2) // CREATE + single ACCEPT
}

func TestService_Delete_Idempotent(t *testing.T) {
	t.Parallel()

	svc, store, rec := newTestService()
	actor := testActor()
	ctx := context.Background()

	p, err := svc.Create(ctx, actor, validCreate())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID, actor.ID))
	stored, err := store.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusDeleted, stored.Status)

	err = svc.Delete(ctx, p.ID, actor.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.FromError(err).Kind)

	require.Len(t, rec.entries, 2)
	assert.Equal(t, models.AuditActionDelete, rec.entries[1].Action)
}

func TestService_ListByRfp(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService()
	actor := testActor()
	ctx := context.Background()

	req := validCreate()
	_, err := svc.Create(ctx, actor, req)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, req)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, validCreate()) // different RFP
	require.NoError(t, err)

	items, err := svc.ListByRfp(ctx, req.RfpID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

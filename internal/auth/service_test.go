package auth

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
	"github.com/lexprocure/api/internal/token"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (s *memUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return apperr.Conflict("User already exists")
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memUserStore) BumpSessionVersion(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound("User not found")
	}
	u.SessionVersion++
	return nil
}

type memOrgStore struct {
	mu   sync.Mutex
	orgs map[string]*models.Organisation
}

func newMemOrgStore() *memOrgStore {
	return &memOrgStore{orgs: make(map[string]*models.Organisation)}
}

func (s *memOrgStore) Create(_ context.Context, o *models.Organisation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[o.Name]; ok {
		return apperr.Conflict("Organisation already exists")
	}
	o.ID = uuid.New()
	s.orgs[o.Name] = o
	return nil
}

func newTestService(t *testing.T) (*Service, *memUserStore) {
	t.Helper()
	users := newMemUserStore()
	orgs := newMemOrgStore()
	codec := token.NewCodec("access-secret", "refresh-secret", 30*time.Minute, 30*24*time.Hour)
	// cost 4 keeps bcrypt fast in tests
	return NewService(users, orgs, codec, NewBcryptVerifier(4)), users
}

func registerUser(t *testing.T, svc *Service, email string) *Session {
	t.Helper()
	sess, err := svc.Register(context.Background(), RegisterRequest{
		Email:             email,
		Password:          "hunter22",
		ConfirmedPassword: "hunter22",
		Name:              "Alex",
		OrganisationName:  "Acme Legal " + email,
		OrganisationKind:  "LEGAL_TEAM",
	})
	require.NoError(t, err)
	return sess
}

func TestService_Register_CreatesAdminAndSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	sess := registerUser(t, svc, "a@x.com")

	assert.Equal(t, models.RoleAdmin, sess.User.Role)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)
	assert.NotEqual(t, uuid.Nil, sess.User.OrganisationID)
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{
			name: "password mismatch",
			req: RegisterRequest{
				Email: "a@x.com", Password: "one", ConfirmedPassword: "two",
				Name: "Alex", OrganisationName: "Acme", OrganisationKind: "LAW_FIRM",
			},
		},
		{
			name: "bad organisation kind",
			req: RegisterRequest{
				Email: "a@x.com", Password: "pw", ConfirmedPassword: "pw",
				Name: "Alex", OrganisationName: "Acme", OrganisationKind: "BAKERY",
			},
		},
		{
			name: "missing email",
			req: RegisterRequest{
				Password: "pw", ConfirmedPassword: "pw",
				Name: "Alex", OrganisationName: "Acme", OrganisationKind: "LAW_FIRM",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(ctx, tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.FromError(err).Kind)
		})
	}
}

func TestService_Register_DuplicateOrganisation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	registerUser(t, svc, "a@x.com")

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "b@x.com", Password: "pw", ConfirmedPassword: "pw",
		Name: "Blake", OrganisationName: "Acme Legal a@x.com", OrganisationKind: "LEGAL_TEAM",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.FromError(err).Kind)
}

func TestService_Login_UniformFailure(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	registerUser(t, svc, "a@x.com")
	ctx := context.Background()

	sessErr := func(req LoginRequest) *apperr.Error {
		_, err := svc.Login(ctx, req)
		require.Error(t, err)
		return apperr.FromError(err)
	}

	badPassword := sessErr(LoginRequest{Email: "a@x.com", Password: "wrong"})
	unknownEmail := sessErr(LoginRequest{Email: "nobody@x.com", Password: "hunter22"})

	// Identical kind and message for both failure modes: no credential enumeration.
	assert.Equal(t, badPassword.Kind, unknownEmail.Kind)
	assert.Equal(t, "Invalid login information", badPassword.Message)
	assert.Equal(t, "Invalid login information", unknownEmail.Message)
}

func TestService_LoginThenRefresh(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	registerUser(t, svc, "a@x.com")
	ctx := context.Background()

	sess, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "hunter22"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.NotEmpty(t, refreshed.RefreshToken)
	assert.Equal(t, sess.User.ID, refreshed.User.ID)
}

func TestService_Refresh_TamperedToken(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	sess := registerUser(t, svc, "a@x.com")

	_, err := svc.Refresh(context.Background(), sess.RefreshToken+"x")
	require.Error(t, err)
	ae := apperr.FromError(err)
	assert.Equal(t, apperr.KindAuth, ae.Kind)
	assert.Equal(t, "Invalid refresh token", ae.Message)
}

func TestService_Refresh_AfterLogout(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	sess := registerUser(t, svc, "a@x.com")
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, sess.User.ID))

	// The signature still verifies; the version mismatch alone must reject it.
	_, err := svc.Refresh(ctx, sess.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.FromError(err).Kind)
}

func TestService_Refresh_SubjectDeleted(t *testing.T) {
	t.Parallel()

	svc, users := newTestService(t)
	sess := registerUser(t, svc, "a@x.com")

	users.mu.Lock()
	delete(users.users, sess.User.ID)
	users.mu.Unlock()

	_, err := svc.Refresh(context.Background(), sess.RefreshToken)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.FromError(err).Kind)
}

func TestService_Logout_InvalidatesAllOutstandingTokens(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	registerUser(t, svc, "a@x.com")
	ctx := context.Background()

	first, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "hunter22"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "hunter22"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, first.User.ID))

	// One version bump revokes every token issued before it, without enumeration.
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.Error(t, err)
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.Error(t, err)

	// A fresh login works again and its token carries the new version.
	third, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "hunter22"})
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, third.RefreshToken)
	assert.NoError(t, err)
}

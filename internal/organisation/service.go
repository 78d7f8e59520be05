// Package organisation exposes organisation reads and admin-driven member
// management.
package organisation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/auth"
	"github.com/lexprocure/api/internal/models"
)

type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error)
	ListUsers(ctx context.Context, orgID uuid.UUID) ([]models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// OrgCache is satisfied by cache.Cache. Organisations are immutable in scope, so
// a cached copy can never be stale.
type OrgCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type Service struct {
	store    Store
	cache    OrgCache
	verifier auth.CredentialVerifier
	// defaultPassword seeds credentials of admin-added members.
	defaultPassword string
}

func NewService(store Store, cache OrgCache, verifier auth.CredentialVerifier, defaultPassword string) *Service {
	return &Service{store: store, cache: cache, verifier: verifier, defaultPassword: defaultPassword}
}

const orgCacheTTL = time.Hour

func orgCacheKey(id uuid.UUID) string {
	return "org:" + id.String()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	if s.cache != nil {
		var cached models.Organisation
		if err := s.cache.Get(ctx, orgCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	org, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Organisation not found")
		}
		return nil, fmt.Errorf("get organisation: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, orgCacheKey(id), org, orgCacheTTL); err != nil {
			slog.Warn("cache organisation failed", "org_id", id, "error", err)
		}
	}

	return org, nil
}

func (s *Service) ListUsers(ctx context.Context, orgID uuid.UUID) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list organisation users: %w", err)
	}
	return users, nil
}

type AddMemberRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (r *AddMemberRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	if r.Email == "" || !strings.Contains(r.Email, "@") {
		return apperr.Validation("Invalid request body")
	}
	if len(r.Name) < 2 {
		return apperr.Validation("Invalid request body")
	}
	if !models.Role(r.Role).Valid() {
		return apperr.Validation("Invalid request body")
	}
	return nil
}

// AddMember creates a user inside an existing organisation with the default
// credential. The email unique constraint is the authoritative duplicate guard.
func (s *Service) AddMember(ctx context.Context, orgID uuid.UUID, req AddMemberRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, orgID); err != nil {
		return nil, err
	}

	hash, err := s.verifier.Hash(s.defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("hash default credential: %w", err)
	}

	user := &models.User{
		Email:          req.Email,
		Name:           req.Name,
		Role:           models.Role(req.Role),
		OrganisationID: orgID,
		CredentialHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, apperr.Conflict("User already exists in this organisation")
		}
		return nil, fmt.Errorf("create member: %w", err)
	}

	return user, nil
}

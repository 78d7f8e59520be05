package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/models"
	"github.com/lexprocure/api/internal/token"
)

// UserStore is the slice of the credential store the session manager needs.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	// BumpSessionVersion atomically increments session_version, revoking every
	// outstanding refresh token for the user in one write.
	BumpSessionVersion(ctx context.Context, id uuid.UUID) error
}

type OrganisationStore interface {
	Create(ctx context.Context, o *models.Organisation) error
}

type Service struct {
	users    UserStore
	orgs     OrganisationStore
	codec    *token.Codec
	verifier CredentialVerifier
}

func NewService(users UserStore, orgs OrganisationStore, codec *token.Codec, verifier CredentialVerifier) *Service {
	return &Service{users: users, orgs: orgs, codec: codec, verifier: verifier}
}

type RegisterRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmedPassword"`
	Name              string `json:"name"`
	OrganisationName  string `json:"organisationName"`
	OrganisationKind  string `json:"organisationKind"`
}

func (r *RegisterRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.OrganisationName = strings.TrimSpace(r.OrganisationName)
	if r.Email == "" || r.Password == "" || r.Name == "" || r.OrganisationName == "" {
		return apperr.Validation("Invalid body request")
	}
	if !models.OrganisationKind(r.OrganisationKind).Valid() {
		return apperr.Validation("Invalid body request")
	}
	if r.Password != r.ConfirmedPassword {
		return apperr.Validation("Password and confirm password does not match")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is an issued access/refresh pair. The refresh token travels only in the
// jid cookie; handlers must never echo it in a response body.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Register creates the organisation and its first ADMIN user, then opens a session.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	org := &models.Organisation{
		Name: req.OrganisationName,
		Kind: models.OrganisationKind(req.OrganisationKind),
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, apperr.Conflict("Organisation already exists")
		}
		return nil, fmt.Errorf("create organisation: %w", err)
	}

	hash, err := s.verifier.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}

	user := &models.User{
		Email:          req.Email,
		Name:           req.Name,
		Role:           models.RoleAdmin,
		OrganisationID: org.ID,
		CredentialHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.openSession(user)
}

// Login verifies credentials and opens a session. Unknown email and wrong password
// fail identically so the response never reveals which check failed.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, apperr.Validation("Invalid login information")
	}
	if !s.verifier.Compare(user.CredentialHash, req.Password) {
		return nil, apperr.Validation("Invalid login information")
	}
	return s.openSession(user)
}

// Refresh validates a refresh token and rotates it. The token is honored only if
// its embedded session version matches the user's current one; a logout since
// issuance makes every older token fail here regardless of signature validity.
// Rotation itself does not bump the version, so a replayed just-superseded token
// remains usable until logout or expiry (accepted residual risk).
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Auth("Invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperr.Auth("Invalid refresh token")
	}
	if claims.SessionVersion != user.SessionVersion {
		return nil, apperr.Auth("Invalid refresh token")
	}

	return s.openSession(user)
}

// Logout revokes every outstanding refresh token by bumping the session version.
// Already-issued access tokens stay valid until their own short expiry; no
// blacklist is kept.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.BumpSessionVersion(ctx, userID); err != nil {
		return fmt.Errorf("bump session version: %w", err)
	}
	return nil
}

func (s *Service) openSession(user *models.User) (*Session, error) {
	access, err := s.codec.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.IssueRefresh(user.ID, user.SessionVersion)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func (s *Service) RefreshTTL() time.Duration {
	return s.codec.RefreshTTL()
}

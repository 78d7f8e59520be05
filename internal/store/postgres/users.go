package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/models"
)

const userColumns = "id, email, name, role, organisation_id, credential_hash, session_version, created_at, updated_at"

type UserStore struct {
	db *pgxpool.Pool
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (s *UserStore) scanOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.Role, &u.OrganisationID,
		&u.CredentialHash, &u.SessionVersion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users (email, name, role, organisation_id, credential_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, session_version, created_at, updated_at`,
		u.Email, u.Name, u.Role, u.OrganisationID, u.CredentialHash,
	).Scan(&u.ID, &u.SessionVersion, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return nil
}

// BumpSessionVersion is the sole revocation mechanism: one atomic increment
// invalidates every outstanding refresh token for the user.
func (s *UserStore) BumpSessionVersion(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE users SET session_version = session_version + 1, updated_at = now() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("bump session version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("no rows")
	}
	return nil
}

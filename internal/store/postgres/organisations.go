package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprocure/api/internal/models"
)

type OrganisationStore struct {
	db *pgxpool.Pool
}

func (s *OrganisationStore) Create(ctx context.Context, o *models.Organisation) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO organisations (name, kind)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		o.Name, o.Kind,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (s *OrganisationStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	var o models.Organisation
	err := s.db.QueryRow(ctx,
		"SELECT id, name, kind, created_at, updated_at FROM organisations WHERE id = $1", id,
	).Scan(&o.ID, &o.Name, &o.Kind, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *OrganisationStore) ListUsers(ctx context.Context, orgID uuid.UUID) ([]models.User, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+userColumns+" FROM users WHERE organisation_id = $1 ORDER BY created_at", orgID)
	if err != nil {
		return nil, fmt.Errorf("query organisation users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &u.Role, &u.OrganisationID,
			&u.CredentialHash, &u.SessionVersion, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *OrganisationStore) CreateUser(ctx context.Context, u *models.User) error {
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

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lexprocure/api/internal/models"
	"github.com/lexprocure/api/internal/proposal"
)

const proposalColumns = "id, rfp_id, organisation_id, estimated_cost, experience, details, status, created_by, created_at, updated_at"

type ProposalStore struct {
	db *pgxpool.Pool
}

func (s *ProposalStore) Create(ctx context.Context, p *models.Proposal) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO proposals (rfp_id, organisation_id, estimated_cost, experience, details, status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		p.RfpID, p.OrganisationID, p.EstimatedCost, p.Experience, p.Details, p.Status, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (s *ProposalStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		"SELECT "+proposalColumns+" FROM proposals WHERE id = $1", id))
}

func (s *ProposalStore) scanOne(row rowScanner) (*models.Proposal, error) {
	var p models.Proposal
	err := row.Scan(&p.ID, &p.RfpID, &p.OrganisationID, &p.EstimatedCost,
		&p.Experience, &p.Details, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *ProposalStore) ListByRfp(ctx context.Context, rfpID uuid.UUID) ([]models.Proposal, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+proposalColumns+" FROM proposals WHERE rfp_id = $1 AND status != $2 ORDER BY created_at DESC",
		rfpID, models.ProposalStatusDeleted)
	if err != nil {
		return nil, fmt.Errorf("query proposals: %w", err)
	}
	defer rows.Close()

	var items []models.Proposal
	for rows.Next() {
		var p models.Proposal
		if err := rows.Scan(&p.ID, &p.RfpID, &p.OrganisationID, &p.EstimatedCost,
			&p.Experience, &p.Details, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Update patches in one statement guarded against terminal states; a terminal
// or missing row matches nothing and surfaces as NotFound for the service to
// disambiguate.
func (s *ProposalStore) Update(ctx context.Context, id uuid.UUID, upd proposal.Update) (*models.Proposal, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`UPDATE proposals SET
			estimated_cost = COALESCE($2, estimated_cost),
			experience     = COALESCE($3, experience),
			details        = COALESCE($4, details),
			updated_at     = now()
		 WHERE id = $1 AND status NOT IN ($5, $6, $7)
		 RETURNING `+proposalColumns,
		id, upd.EstimatedCost, upd.Experience, upd.Details,
		models.ProposalStatusAccepted, models.ProposalStatusRejected, models.ProposalStatusDeleted))
}

// Accept is the conditional SUBMITTED -> ACCEPTED transition; concurrent
// accepts serialize on the row so exactly one statement matches.
func (s *ProposalStore) Accept(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`UPDATE proposals SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = $3
		 RETURNING `+proposalColumns,
		id, models.ProposalStatusAccepted, models.ProposalStatusSubmitted))
}

func (s *ProposalStore) SoftDelete(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	return s.scanOne(s.db.QueryRow(ctx,
		`UPDATE proposals SET status = $2, updated_at = now()
		 WHERE id = $1 AND status != $2
		 RETURNING `+proposalColumns,
		id, models.ProposalStatusDeleted))
}

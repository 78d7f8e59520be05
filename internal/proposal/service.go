// Package proposal applies the same mutation protocol as package rfp to
// proposals, plus the SUBMITTED -> ACCEPTED transition.
package proposal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/audit"
	"github.com/lexprocure/api/internal/models"
)

type Store interface {
	Create(ctx context.Context, p *models.Proposal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	ListByRfp(ctx context.Context, rfpID uuid.UUID) ([]models.Proposal, error)
	// Update applies upd in one conditional UPDATE guarded against terminal
	// states; no matching row yields NotFound.
	Update(ctx context.Context, id uuid.UUID, upd Update) (*models.Proposal, error)
	// Accept is the conditional transition SUBMITTED -> ACCEPTED.
	Accept(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	// SoftDelete is the guarded transition status != DELETED -> DELETED.
	SoftDelete(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, e audit.Entry)
}

type Service struct {
	store  Store
	audits AuditRecorder
}

func NewService(store Store, audits AuditRecorder) *Service {
	return &Service{store: store, audits: audits}
}

type CreateRequest struct {
	RfpID         uuid.UUID `json:"rfp_id"`
	EstimatedCost float64   `json:"estimated_cost"`
	Experience    string    `json:"experience"`
	Details       string    `json:"details"`
}

func (r *CreateRequest) Validate() error {
	if r.RfpID == uuid.Nil {
		return apperr.Validation("Invalid body request")
	}
	if r.EstimatedCost < 0 {
		return apperr.Validation("Invalid body request")
	}
	if len(r.Experience) < 3 {
		return apperr.Validation("Invalid body request")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, actor *models.User, req CreateRequest) (*models.Proposal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &models.Proposal{
		RfpID:          req.RfpID,
		OrganisationID: actor.OrganisationID,
		EstimatedCost:  req.EstimatedCost,
		Experience:     req.Experience,
		Details:        req.Details,
		Status:         models.ProposalStatusSubmitted,
		CreatedBy:      actor.ID,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	s.audits.Record(ctx, audit.Entry{
		EntityType:  models.EntityTypeProposal,
		EntityID:    p.ID,
		Action:      models.AuditActionCreate,
		PerformedBy: actor.ID,
		Changes:     req,
	})

	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("Proposal not found")
		}
		return nil, fmt.Errorf("get proposal: %w", err)
	}
	return p, nil
}

func (s *Service) ListByRfp(ctx context.Context, rfpID uuid.UUID) ([]models.Proposal, error) {
	items, err := s.store.ListByRfp(ctx, rfpID)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	return items, nil
}

type Update struct {
	EstimatedCost *float64 `json:"estimated_cost,omitempty"`
	Experience    *string  `json:"experience,omitempty"`
	Details       *string  `json:"details,omitempty"`
}

func (u *Update) Validate() error {
	if u.EstimatedCost == nil && u.Experience == nil && u.Details == nil {
		return apperr.Validation("Invalid body request")
	}
	if u.EstimatedCost != nil && *u.EstimatedCost < 0 {
		return apperr.Validation("Invalid body request")
	}
	return nil
}

// Update patches a proposal atomically. Terminal proposals (ACCEPTED, REJECTED,
// DELETED) are immutable; touching one is a Conflict.
func (s *Service) Update(ctx context.Context, id uuid.UUID, performedBy uuid.UUID, upd Update) (*models.Proposal, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, upd)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			if current, getErr := s.store.GetByID(ctx, id); getErr == nil && current.Status.Terminal() {
				return nil, apperr.Conflict("Proposal can no longer be modified")
			}
			return nil, apperr.NotFound("Proposal not found")
		}
		return nil, fmt.Errorf("update proposal: %w", err)
	}

	s.audits.Record(ctx, audit.Entry{
		EntityType:  models.EntityTypeProposal,
		EntityID:    updated.ID,
		Action:      models.AuditActionUpdate,
		PerformedBy: performedBy,
		Changes:     upd,
	})

	return updated, nil
}

// Accept transitions a SUBMITTED proposal to ACCEPTED. The transition is a
// single conditional write, so two concurrent accepts yield one success and one
// Conflict.
func (s *Service) Accept(ctx context.Context, id uuid.UUID, performedBy uuid.UUID) (*models.Proposal, error) {
	accepted, err := s.store.Accept(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			if current, getErr := s.store.GetByID(ctx, id); getErr == nil {
				return nil, apperr.Conflict(fmt.Sprintf("Proposal in status %s cannot be accepted", current.Status))
			}
			return nil, apperr.NotFound("Proposal not found")
		}
		return nil, fmt.Errorf("accept proposal: %w", err)
	}

	s.audits.Record(ctx, audit.Entry{
		EntityType:  models.EntityTypeProposal,
		EntityID:    accepted.ID,
		Action:      models.AuditActionAccept,
		PerformedBy: performedBy,
		Changes:     "Proposal accepted by user",
	})

	return accepted, nil
}

// Delete soft-deletes the proposal with the same idempotent observable behavior
// as RFP deletion.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, performedBy uuid.UUID) error {
	deleted, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.NotFound("Proposal not found")
		}
		return fmt.Errorf("delete proposal: %w", err)
	}

	s.audits.Record(ctx, audit.Entry{
		EntityType:  models.EntityTypeProposal,
		EntityID:    deleted.ID,
		Action:      models.AuditActionDelete,
		PerformedBy: performedBy,
	})

	return nil
}

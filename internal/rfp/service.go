// Package rfp implements the RFP side of the idempotent mutation protocol:
// uniqueness enforced at write time, atomic conditional updates, soft delete as a
// guarded state transition.
package rfp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lexprocure/api/internal/apperr"
	"github.com/lexprocure/api/internal/audit"
	"github.com/lexprocure/api/internal/models"
)

// Store performs single atomic statements; the service never composes a
// read-modify-write for an authoritative state change.
type Store interface {
	// Create inserts the RFP; a (title, created_by) collision surfaces as a
	// Conflict error from the store's unique index, which is the authoritative
	// duplicate guard under concurrency.
	Create(ctx context.Context, r *models.Rfp) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Rfp, error)
	GetByTitleAndCreator(ctx context.Context, title string, createdBy uuid.UUID) (*models.Rfp, error)
	List(ctx context.Context, f Filter) ([]models.Rfp, int, error)
	// Update applies upd in one conditional UPDATE ... RETURNING. When upd.Status
	// is set the condition also requires the current status to be an allowed
	// predecessor; no matching row yields NotFound.
	Update(ctx context.Context, id uuid.UUID, upd Update) (*models.Rfp, error)
	// SoftDelete is the guarded transition status != DELETED -> DELETED.
	SoftDelete(ctx context.Context, id uuid.UUID) (*models.Rfp, error)
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

const (
	titleMinLen = 8
	titleMaxLen = 255
)

type CreateRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Budget      float64   `json:"budget"`
	DueDate     time.Time `json:"due_date"`
}

func (r *CreateRequest) Validate() error {
	if len(r.Title) < titleMinLen || len(r.Title) > titleMaxLen {
		return apperr.Validation("Invalid body request")
	}
	if r.Budget < 0 {
		return apperr.Validation("Invalid body request")
	}
	if r.DueDate.IsZero() {
		return apperr.Validation("Invalid body request")
	}
	return nil
}

// Create inserts a new RFP in SUBMITTED state. The lookup before the insert is a
// fast-fail UX path only; two requests racing past it are still serialized by the
// store's unique index, yielding exactly one success and one Conflict.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req CreateRequest) (*models.Rfp, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.store.GetByTitleAndCreator(ctx, req.Title, createdBy); err == nil && existing != nil {
		return nil, apperr.Conflict("An RFP with this title already exists for this user")
	}

	rfp := &models.Rfp{
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Status:      models.RfpStatusSubmitted,
		DueDate:     req.DueDate,
		CreatedBy:   createdBy,
	}
	if err := s.store.Create(ctx, rfp); err != nil {
		if apperr.IsKind(err, apperr.KindConflict) {
			return nil, apperr.Conflict("An RFP with this title already exists for this user")
		}
		return nil, fmt.Errorf("create rfp: %w", err)
	}

	s.audits.Record(ctx, audit.Entry{
		EntityType:  models.EntityTypeRfp,
		EntityID:    rfp.ID,
		Action:      models.AuditActionCreate,
		PerformedBy: createdBy,
		Changes:     req,
	})

	return rfp, nil
}

type Filter struct {
	Status    string
	Search    string
	MinBudget *float64
	MaxBudget *float64
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

func (f *Filter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 10
	}
}

type Page struct {
	Items      []models.Rfp `json:"items"`
	Pagination Pagination   `json:"pagination"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	f.Normalize()

	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list rfps: %w", err)
	}

	pages := (total + f.Limit - 1) / f.Limit
	return &Page{
		Items:      items,
		Pagination: Pagination{Total: total, Page: f.Page, Pages: pages},
	}, nil
}

type Update struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Budget      *float64          `json:"budget,omitempty"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	Status      *models.RfpStatus `json:"status,omitempty"`
}

func (u *Update) Validate() error {
	if u.Title == nil && u.Description == nil && u.Budget == nil && u.DueDate == nil && u.Status == nil {
		return apperr.Validation("Invalid body request")
	}
	if u.Title != nil && (len(*u.Title) < titleMinLen || len(*u.Title) > titleMaxLen) {
		return apperr.Validation("Invalid body request")
	}
	if u.Budget != nil && *u.Budget < 0 {
		return apperr.Validation("Invalid body request")
	}
	if u.Status != nil {
		if !u.Status.Valid() || len(u.Status.AllowedPriorStatuses()) == 0 {
			return apperr.Validation("Invalid body request")
		}
	}
	return nil
}

// Update merges the submitted fields over the prior state in one atomic write and
// returns the post-update snapshot. Repeating an identical update is safe: the
// second call observes the same resulting document.
func (s *Service) Update(ctx context.Context, id uuid.UUID, performedBy uuid.UUID, upd Update) (*models.Rfp, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, upd)
	if err != nil {
		switch {
		case apperr.IsKind(err, apperr.KindConflict):
			return nil, apperr.Conflict("Duplicate RFP title for this user")
		case apperr.IsKind(err, apperr.KindNotFound) && upd.Status != nil:
			// The row may exist but sit in a state the requested transition does
			// not allow; only the failure path pays for this extra read.
			if current, getErr := s.store.GetByID(ctx, id); getErr == nil && current.Status != models.RfpStatusDeleted {
				return nil, apperr.Conflict("Invalid status transition")
			}
			return nil, apperr.NotFound("RFP not found")
		case apperr.IsKind(err, apperr.KindNotFound):
			return nil, apperr.NotFound("RFP not found")
		}
		return nil, fmt.Errorf("update rfp: %w", err)
	}

	s.audits.Record(ctx, audit.Entry{
		EntityType:  models.EntityTypeRfp,
		EntityID:    updated.ID,
		Action:      models.AuditActionUpdate,
		PerformedBy: performedBy,
		Changes:     upd,
	})

	return updated, nil
}

// Delete soft-deletes the RFP. The first call transitions and succeeds; every
// later call (and any call on an unknown id) fails with the same NotFound.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, performedBy uuid.UUID) error {
	deleted, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return apperr.NotFound("RFP not found or already deleted")
		}
		return fmt.Errorf("delete rfp: %w", err)
	}

	s.audits.Record(ctx, audit.Entry{
		EntityType:  models.EntityTypeRfp,
		EntityID:    deleted.ID,
		Action:      models.AuditActionDelete,
		PerformedBy: performedBy,
	})

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Rfp, error) {
	rfp, err := s.store.GetByID(ctx, id)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, apperr.NotFound("RFP not found")
		}
		return nil, fmt.Errorf("get rfp: %w", err)
	}
	return rfp, nil
}

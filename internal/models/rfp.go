package models

import (
	"time"

	"github.com/google/uuid"
)

type RfpStatus string

const (
	RfpStatusDraft     RfpStatus = "DRAFT"
	RfpStatusSubmitted RfpStatus = "SUBMITTED"
	RfpStatusPublished RfpStatus = "PUBLISHED"
	RfpStatusClosed    RfpStatus = "CLOSED"
	RfpStatusDeleted   RfpStatus = "DELETED"
)

// rfpTransitions encodes DRAFT -> SUBMITTED -> {PUBLISHED, CLOSED}; DELETED is
// reachable from any non-DELETED state and is terminal.
var rfpTransitions = map[RfpStatus][]RfpStatus{
	RfpStatusSubmitted: {RfpStatusDraft},
	RfpStatusPublished: {RfpStatusSubmitted},
	RfpStatusClosed:    {RfpStatusSubmitted},
	RfpStatusDeleted:   {RfpStatusDraft, RfpStatusSubmitted, RfpStatusPublished, RfpStatusClosed},
}

// AllowedPriorStatuses returns the statuses an RFP may hold immediately before
// transitioning to s. An empty slice means s is never a valid transition target.
func (s RfpStatus) AllowedPriorStatuses() []RfpStatus {
	return rfpTransitions[s]
}

func (s RfpStatus) Valid() bool {
	switch s {
	case RfpStatusDraft, RfpStatusSubmitted, RfpStatusPublished, RfpStatusClosed, RfpStatusDeleted:
		return true
	}
	return false
}

type Rfp struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Budget      float64   `json:"budget" db:"budget"`
	Status      RfpStatus `json:"status" db:"status"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

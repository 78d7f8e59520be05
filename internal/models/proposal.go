package models

import (
	"time"

	"github.com/google/uuid"
)

type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "DRAFT"
	ProposalStatusSubmitted ProposalStatus = "SUBMITTED"
	ProposalStatusAccepted  ProposalStatus = "ACCEPTED"
	ProposalStatusRejected  ProposalStatus = "REJECTED"
	ProposalStatusDeleted   ProposalStatus = "DELETED"
)

// Terminal reports whether no further state transition may leave s.
func (s ProposalStatus) Terminal() bool {
	switch s {
	case ProposalStatusAccepted, ProposalStatusRejected, ProposalStatusDeleted:
		return true
	}
	return false
}

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSubmitted, ProposalStatusAccepted,
		ProposalStatusRejected, ProposalStatusDeleted:
		return true
	}
	return false
}

type Proposal struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	RfpID          uuid.UUID      `json:"rfp_id" db:"rfp_id"`
	OrganisationID uuid.UUID      `json:"organisation_id" db:"organisation_id"`
	EstimatedCost  float64        `json:"estimated_cost" db:"estimated_cost"`
	Experience     string         `json:"experience" db:"experience"`
	Details        string         `json:"details" db:"details"`
	Status         ProposalStatus `json:"status" db:"status"`
	CreatedBy      uuid.UUID      `json:"created_by" db:"created_by"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

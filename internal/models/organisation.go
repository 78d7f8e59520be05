package models

import (
	"time"

	"github.com/google/uuid"
)

type OrganisationKind string

const (
	OrgKindLegalTeam OrganisationKind = "LEGAL_TEAM"
	OrgKindLawFirm   OrganisationKind = "LAW_FIRM"
)

func (k OrganisationKind) Valid() bool {
	return k == OrgKindLegalTeam || k == OrgKindLawFirm
}

type Organisation struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	Name      string           `json:"name" db:"name"`
	Kind      OrganisationKind `json:"kind" db:"kind"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

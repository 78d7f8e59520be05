package models

import (
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityTypeRfp      EntityType = "RFP"
	EntityTypeProposal EntityType = "PROPOSAL"
)

func (t EntityType) Valid() bool {
	return t == EntityTypeRfp || t == EntityTypeProposal
}

type Comment struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	EntityType EntityType `json:"entity_type" db:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id" db:"entity_id"`
	Content    string     `json:"content" db:"content"`
	CreatedBy  uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

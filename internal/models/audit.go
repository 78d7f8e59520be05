package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionAccept AuditAction = "ACCEPT"
)

// AuditLog rows are append-only: they are never updated or deleted.
type AuditLog struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	EntityType  EntityType      `json:"entity_type" db:"entity_type"`
	EntityID    uuid.UUID       `json:"entity_id" db:"entity_id"`
	Action      AuditAction     `json:"action" db:"action"`
	PerformedBy uuid.UUID       `json:"performed_by" db:"performed_by"`
	Changes     json.RawMessage `json:"changes,omitempty" db:"changes"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

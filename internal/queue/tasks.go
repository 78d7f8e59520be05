package queue

import (
	"encoding/json"

	"github.com/google/uuid"
)

const TypeAuditRecord = "audit:record"

// AuditRecordPayload carries a failed audit insert so the worker can replay it
// verbatim.
type AuditRecordPayload struct {
	EntityType  string          `json:"entity_type"`
	EntityID    uuid.UUID       `json:"entity_id"`
	Action      string          `json:"action"`
	PerformedBy uuid.UUID       `json:"performed_by"`
	Changes     json.RawMessage `json:"changes,omitempty"`
}

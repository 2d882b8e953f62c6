package domain

import "time"

// AuditRecord is one append-only entry in the administrator audit trail.
// Written by the manual credit path and admin approval/suspension actions.
type AuditRecord struct {
	RecordID        string         `json:"recordID"` // Primary Key (UUID)
	Action          string         `json:"action"`
	ActorID         string         `json:"actorID"`
	TargetAccountID string         `json:"targetAccountID,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

package model

import (
	"time"

	"github.com/google/uuid"

	"studyhall-backend/internal/shared"
)

// AuditLog is one append-only trail entry. Entries are never updated or
// deleted.
type AuditLog struct {
	ID         uuid.UUID              `json:"id"`
	Action     string                 `json:"action"`
	ActorID    uuid.UUID              `json:"actor_id"`
	ActorName  string                 `json:"actor_name"`
	ActorRole  shared.Role            `json:"actor_role"`
	TargetType string                 `json:"target_type"`
	TargetID   uuid.UUID              `json:"target_id"`
	OldValues  map[string]interface{} `json:"old_values,omitempty"`
	NewValues  map[string]interface{} `json:"new_values,omitempty"`
	Reason     string                 `json:"reason,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type ListAuditFilter struct {
	Action     string
	ActorID    *uuid.UUID
	TargetType string
	TargetID   *uuid.UUID
	From       *time.Time
	To         *time.Time

	// HideAdminEntries is set when the caller is a director: entries
	// performed by an admin are filtered out at query time.
	HideAdminEntries bool

	Limit  int
	Offset int
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type ActorCount struct {
	ActorID   uuid.UUID `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Count     int       `json:"count"`
}

type AuditStats struct {
	Total     int           `json:"total"`
	ByAction  []ActionCount `json:"by_action"`
	TopActors []ActorCount  `json:"top_actors"`
}

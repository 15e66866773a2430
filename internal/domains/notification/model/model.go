package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one fan-out message. Recipients is the snapshot of active
// admin/director ids at emit time (excluding the actor); ReadBy tracks
// per-recipient read timestamps keyed by user id.
type Notification struct {
	ID          uuid.UUID            `json:"id"`
	Type        string               `json:"type"`
	Title       string               `json:"title"`
	Message     string               `json:"message"`
	ActorID     uuid.UUID            `json:"actor_id"`
	ActorName   string               `json:"actor_name"`
	Recipients  []uuid.UUID          `json:"recipients"`
	ReadBy      map[string]time.Time `json:"read_by,omitempty"`
	RelatedID   *uuid.UUID           `json:"related_id,omitempty"`
	RelatedType string               `json:"related_type,omitempty"`
	IsDeleted   bool                 `json:"-"`
	CreatedAt   time.Time            `json:"created_at"`
}

// View is a notification as seen by one recipient.
type View struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	ActorName   string     `json:"actor_name"`
	RelatedID   *uuid.UUID `json:"related_id,omitempty"`
	RelatedType string     `json:"related_type,omitempty"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
}

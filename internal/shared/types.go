package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Background task types and queues
const (
	TypeSweepExpiredSeats = "seat:sweep_expired"
	TypeRepairFeeStatus   = "student:repair_fee_status"

	QueueMaintenance = "maintenance"
)

// StudentCategory classifies both students and seats; the two must match
// for a seat assignment to be valid.
type StudentCategory string

const (
	CategoryRegular StudentCategory = "regular"
	CategoryPremium StudentCategory = "premium"
)

func (sc StudentCategory) IsValid() bool {
	return sc == CategoryRegular || sc == CategoryPremium
}

// TimePlan is the daily access-hours tier. It governs price, not
// membership length.
type TimePlan string

const (
	TimePlan6Hr  TimePlan = "6hr"
	TimePlan12Hr TimePlan = "12hr"
	TimePlan24Hr TimePlan = "24hr"
)

func (tp TimePlan) IsValid() bool {
	switch tp {
	case TimePlan6Hr, TimePlan12Hr, TimePlan24Hr:
		return true
	}
	return false
}

// Role of an authenticated account. Role enforcement happens in the
// middleware layer; services trust the actor they are handed.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleDirector Role = "director"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleDirector
}

// Actor is the authenticated user performing a mutating operation.
// Set on the request context by the auth middleware.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role Role
}

// Audit actions recorded by the core operations.
const (
	ActionStudentAdded        = "student_added"
	ActionStudentEdited       = "student_edited"
	ActionStudentDeleted      = "student_deleted"
	ActionStudentRestored     = "student_restored"
	ActionSeatAssigned        = "seat_assigned"
	ActionSeatChanged         = "seat_changed"
	ActionPaymentAdded        = "payment_added"
	ActionPaymentReversed     = "payment_reversed"
	ActionDirectorCreated     = "director_created"
	ActionDirectorUpdated     = "director_updated"
	ActionDirectorActivated   = "director_activated"
	ActionDirectorDeactivated = "director_deactivated"
	ActionPricingChanged      = "pricing_changed"
	ActionAdminLogin          = "admin_login"
	ActionDirectorLogin       = "director_login"
)

// Target entity kinds referenced by audit entries and notifications.
const (
	TargetStudent = "Student"
	TargetPayment = "Payment"
	TargetUser    = "User"
	TargetPricing = "Pricing"
	TargetSeat    = "Seat"
)

// AuditEntry is the payload handed to the audit sink. Old/NewValues are
// free-form snapshots of the fields that changed.
type AuditEntry struct {
	Action     string
	Actor      Actor
	TargetType string
	TargetID   uuid.UUID
	OldValues  map[string]interface{}
	NewValues  map[string]interface{}
	Reason     string
	IPAddress  string
}

// NotificationEvent is the payload handed to the notification sink. The
// sink fans it out to every active admin/director except the actor.
type NotificationEvent struct {
	Type        string
	Title       string
	Message     string
	Actor       Actor
	RelatedID   uuid.UUID
	RelatedType string
}

// AuditSink and NotificationSink are fire-and-forget collaborators: their
// implementations swallow and log failures, they never fail the caller.
// Types live here so the student/payment services can depend on the
// contract without importing the audit/notification domains.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

type NotificationSink interface {
	Notify(ctx context.Context, event NotificationEvent)
}

// Membership window: fixed 30 days from join/restore, regardless of the
// time plan (the plan governs daily hours, not membership length).
const MembershipDuration = 30 * 24 * time.Hour

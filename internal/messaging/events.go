package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	// Membership events
	EventMembershipCreated    = "membership.created"
	EventMembershipUpdated    = "membership.updated"
	EventMembershipDeleted    = "membership.deleted"
	EventOwnershipTransferred = "membership.ownership_transferred"

	// Notification events
	EventNotificationSubmitted = "notification.submitted"
	EventNotificationApproved  = "notification.approved"
	EventNotificationRejected  = "notification.rejected"
)

// ServiceName is stamped on every event this service emits.
const ServiceName = "membership-service"

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// MembershipEvent is published for create, update and delete.
type MembershipEvent struct {
	BaseEvent
	Data MembershipData `json:"data"`
}

type MembershipData struct {
	MembershipID            int64     `json:"membership_id"`
	OrganizationID          int64     `json:"organization_id"`
	MemberID                int64     `json:"member_id"`
	IsOrganizationInitiated bool      `json:"is_organization_initiated"`
	ChangedBy               string    `json:"changed_by"`
	ChangedAt               time.Time `json:"changed_at"`
}

// OwnershipTransferredEvent is published after a bulk ownership update.
type OwnershipTransferredEvent struct {
	BaseEvent
	Data OwnershipTransferredData `json:"data"`
}

type OwnershipTransferredData struct {
	OrganizationID int64     `json:"organization_id"`
	MemberIDs      []int64   `json:"member_ids"`
	IsOwner        bool      `json:"is_owner"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}

// NotificationStatusEvent is published when a notification enters
// PendingApproval, Approved or Rejected.
type NotificationStatusEvent struct {
	BaseEvent
	Data NotificationStatusData `json:"data"`
}

type NotificationStatusData struct {
	NotificationID        int64     `json:"notification_id"`
	CreatorOrganizationID int64     `json:"creator_organization_id"`
	Subject               string    `json:"subject"`
	OldStatus             string    `json:"old_status"`
	NewStatus             string    `json:"new_status"`
	NotifyAll             bool      `json:"notify_all"`
	TargetOrganizationIDs []int64   `json:"target_organization_ids,omitempty"`
	ChangedBy             string    `json:"changed_by"`
	Notes                 string    `json:"notes,omitempty"`
	ChangedAt             time.Time `json:"changed_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ServiceName: ServiceName,
	}
}

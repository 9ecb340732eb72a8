package notification

import (
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/lib/pq"
)

// Status is the moderation state of a notification.
type Status string

const (
	StatusDraft           Status = "Draft"
	StatusPendingApproval Status = "PendingApproval"
	StatusApproved        Status = "Approved"
	StatusRejected        Status = "Rejected"
)

// Editable reports whether content may still change and the record may be deleted.
func (s Status) Editable() bool {
	return s != StatusApproved
}

// View selects one of the role-partitioned projections of the notifications table.
type View string

const (
	ViewInbox    View = "I"
	ViewSent     View = "S"
	ViewAwaiting View = "A"
)

func (v View) Valid() bool {
	switch v {
	case ViewInbox, ViewSent, ViewAwaiting:
		return true
	}
	return false
}

// Document is an attachment reference. Upload and storage happen elsewhere.
type Document struct {
	ID             int64     `json:"id" db:"id"`
	NotificationID int64     `json:"-" db:"notification_id"`
	FileName       string    `json:"fileName" db:"file_name"`
	FileURL        string    `json:"fileUrl" db:"file_url"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

type Notification struct {
	ID                      int64         `json:"id" db:"id"`
	CreatorOrganizationID   int64         `json:"creatorOrganizationId" db:"creator_organization_id"`
	CreatorOrganizationName string        `json:"creatorOrganizationName" db:"creator_organization_name"`
	Subject                 string        `json:"subject" db:"subject"`
	Body                    string        `json:"body" db:"body"`
	EventDate               *time.Time    `json:"eventDate,omitempty" db:"event_date"`
	Venue                   string        `json:"venue,omitempty" db:"venue"`
	VenueDistrictID         *int64        `json:"venueDistrictId,omitempty" db:"venue_district_id"`
	VenueWardID             *int64        `json:"venueWardId,omitempty" db:"venue_ward_id"`
	NotifyAll               bool          `json:"notifyAll" db:"notify_all"`
	TargetOrganizationIDs   pq.Int64Array `json:"targetOrganizationIds" db:"target_organization_ids"`
	Documents               []Document    `json:"documents" db:"-"`
	Status                  Status        `json:"status" db:"status"`
	IsEditable              bool          `json:"isEditable" db:"-"`
	CreatedByUserID         string        `json:"createdByUserId" db:"created_by_user_id"`
	ApproverUserID          *string       `json:"approverUserId" db:"approver_user_id"`
	ApprovedDate            *time.Time    `json:"approvedDate" db:"approved_date"`
	Notes                   *string       `json:"notes" db:"notes"`
	CreatedAt               time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt               *time.Time    `json:"updatedAt,omitempty" db:"updated_at"`
}

// Targets reports whether orgID may see the notification once approved.
func (n *Notification) Targets(orgID int64) bool {
	if n.NotifyAll {
		return true
	}
	for _, id := range n.TargetOrganizationIDs {
		if id == orgID {
			return true
		}
	}
	return false
}

// Attachment references an already uploaded file.
type Attachment struct {
	FileName string `json:"fileName" validate:"notblank,max=500"`
	FileURL  string `json:"fileUrl" validate:"notblank"`
}

// Content is the author-editable part of a notification.
type Content struct {
	Subject               string       `json:"subject" validate:"notblank,max=500"`
	Body                  string       `json:"body"`
	EventDate             *time.Time   `json:"eventDate,omitempty"`
	Venue                 string       `json:"venue,omitempty" validate:"max=500"`
	VenueDistrictID       *int64       `json:"venueDistrictId,omitempty" validate:"omitempty,gt=0"`
	VenueWardID           *int64       `json:"venueWardId,omitempty" validate:"omitempty,gt=0"`
	NotifyAll             bool         `json:"notifyAll"`
	TargetOrganizationIDs []int64      `json:"targetOrganizationIds,omitempty" validate:"omitempty,dive,gt=0"`
	Attachments           []Attachment `json:"attachments,omitempty" validate:"omitempty,dive"`
}

// CreateNotificationRequest creates a notification. With Submit set it goes
// straight to PendingApproval, otherwise it is saved as a Draft.
type CreateNotificationRequest struct {
	Content
	CreatorOrganizationID int64 `json:"creatorOrganizationId,omitempty" validate:"omitempty,gt=0"`
	Submit                bool  `json:"submit"`
}

// UpdateNotificationRequest replaces the content and target set. RemovedFiles
// lists document ids to detach; Attachments are appended.
type UpdateNotificationRequest struct {
	Content
	RemovedFiles []int64 `json:"removedFiles,omitempty" validate:"omitempty,dive,gt=0"`
}

// UpdateStatusRequest moderates a pending notification.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=Approved Rejected"`
	Notes  string `json:"notes,omitempty"`
}

// NewNotification is what the repository persists on create.
type NewNotification struct {
	Content
	CreatorOrganizationID int64
	CreatedByUserID       string
	Status                Status
}

// SearchFilter narrows one view. OrganizationID is the caller's organization
// and is resolved by the service.
type SearchFilter struct {
	View            View
	OrganizationID  *int64
	Subject         string
	Venue           string
	Status          Status
	VenueDistrictID *int64
	VenueWardID     *int64

	pagination.Params
}

type SearchResult = pagination.Result[Notification]

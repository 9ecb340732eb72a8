package membership

import (
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
)

// Membership is one organization-member binding.
type Membership struct {
	ID                      int64      `json:"membershipId"`
	OrganizationID          int64      `json:"organizationId"`
	OrganizationName        string     `json:"organizationName"`
	MemberID                int64      `json:"memberId"`
	MemberName              string     `json:"memberName"`
	IsOrganizationInitiated bool       `json:"isOrganizationInitiated"`
	IsOwner                 bool       `json:"isOwner"`
	Status                  string     `json:"status"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// CreateMembershipRequest binds a member to an organization.
type CreateMembershipRequest struct {
	OrganizationID          int64 `json:"organizationId" validate:"required,gt=0"`
	MemberID                int64 `json:"memberId" validate:"required,gt=0"`
	IsOrganizationInitiated bool  `json:"isOrganizationInitiated"`
}

// UpdateMembershipRequest rewrites an existing binding.
type UpdateMembershipRequest struct {
	OrganizationID          int64 `json:"organizationId" validate:"required,gt=0"`
	MemberID                int64 `json:"memberId" validate:"required,gt=0"`
	IsOrganizationInitiated bool  `json:"isOrganizationInitiated"`
}

// TransferOwnershipRequest sets IsOwner on every listed member of an organization.
type TransferOwnershipRequest struct {
	MemberIDs []int64 `json:"memberIds" validate:"min=1,dive,gt=0"`
	IsOwner   bool    `json:"isOwner"`
}

// SearchFilter is the sparse membership search. OrganizationName and
// MemberName are prefix matches where either one matching is enough; the
// remaining fields are exact and must all match.
type SearchFilter struct {
	OrganizationName string
	MemberName       string

	OrganizationID          *int64
	MemberID                *int64
	TypeID                  *int64
	DistrictID              *int64
	WardID                  *int64
	IsOwner                 *bool
	IsOrganizationInitiated *bool

	pagination.Params
}

// SearchResult is one page of memberships.
type SearchResult = pagination.Result[Membership]

// StatusActive is the only lifecycle value a membership row currently takes.
const StatusActive = "active"

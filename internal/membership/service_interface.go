package membership

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

// ServiceInterface defines the contract for membership business logic
type ServiceInterface interface {
	CreateMembership(ctx context.Context, req CreateMembershipRequest, principal *auth.Principal) (int64, error)
	UpdateMembership(ctx context.Context, id int64, req UpdateMembershipRequest, principal *auth.Principal) (int64, error)
	GetMembership(ctx context.Context, id int64, principal *auth.Principal) (*Membership, error)
	DeleteMembership(ctx context.Context, id int64, principal *auth.Principal) (bool, error)
	SearchMemberships(ctx context.Context, filter SearchFilter, principal *auth.Principal) (*SearchResult, error)
	TransferOwnership(ctx context.Context, orgID int64, req TransferOwnershipRequest, principal *auth.Principal) error
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)

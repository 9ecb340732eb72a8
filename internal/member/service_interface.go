package member

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

// ServiceInterface defines the contract for member business logic
type ServiceInterface interface {
	CreateMember(ctx context.Context, req CreateMemberRequest, principal *auth.Principal) (*Member, error)
	GetMember(ctx context.Context, id int64, principal *auth.Principal) (*Member, error)
	SearchMembers(ctx context.Context, filter SearchFilter, principal *auth.Principal) (*SearchResult, error)
}

var _ ServiceInterface = (*Service)(nil)

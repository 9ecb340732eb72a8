package organization

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

// ServiceInterface defines the contract for organization business logic
type ServiceInterface interface {
	CreateOrganization(ctx context.Context, req CreateOrganizationRequest, principal *auth.Principal) (*Organization, error)
	GetOrganization(ctx context.Context, id int64, principal *auth.Principal) (*Organization, error)
	SearchOrganizations(ctx context.Context, filter SearchFilter, principal *auth.Principal) (*SearchResult, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)

package organization

import "context"

// RepositoryInterface defines the contract for organization data access
type RepositoryInterface interface {
	CreateOrganization(ctx context.Context, req CreateOrganizationRequest, createdBy string) (*Organization, error)
	GetOrganization(ctx context.Context, id int64) (*Organization, error)
	SearchOrganizations(ctx context.Context, filter SearchFilter) ([]Organization, int, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)

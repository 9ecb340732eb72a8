package membership

import "context"

// RepositoryInterface defines the contract for membership data access
type RepositoryInterface interface {
	Create(ctx context.Context, req CreateMembershipRequest) (*Membership, error)
	Update(ctx context.Context, id int64, req UpdateMembershipRequest) error
	GetByID(ctx context.Context, id int64) (*Membership, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Search(ctx context.Context, filter SearchFilter) ([]Membership, int, error)
	TransferOwnership(ctx context.Context, orgID int64, memberIDs []int64, isOwner bool) (int64, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)

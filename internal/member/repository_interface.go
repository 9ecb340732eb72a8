package member

import "context"

// RepositoryInterface defines the contract for member data access
type RepositoryInterface interface {
	CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error)
	GetMember(ctx context.Context, id int64) (*Member, error)
	SearchMembers(ctx context.Context, filter SearchFilter) ([]Member, int, error)
}

var _ RepositoryInterface = (*Repository)(nil)

package membership

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

// mockRepository is a func-field mock of RepositoryInterface.
type mockRepository struct {
	createFunc   func(ctx context.Context, req CreateMembershipRequest) (*Membership, error)
	updateFunc   func(ctx context.Context, id int64, req UpdateMembershipRequest) error
	getFunc      func(ctx context.Context, id int64) (*Membership, error)
	deleteFunc   func(ctx context.Context, id int64) (bool, error)
	searchFunc   func(ctx context.Context, filter SearchFilter) ([]Membership, int, error)
	transferFunc func(ctx context.Context, orgID int64, memberIDs []int64, isOwner bool) (int64, error)
}

func (m *mockRepository) Create(ctx context.Context, req CreateMembershipRequest) (*Membership, error) {
	return m.createFunc(ctx, req)
}

func (m *mockRepository) Update(ctx context.Context, id int64, req UpdateMembershipRequest) error {
	return m.updateFunc(ctx, id, req)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Membership, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFunc(ctx, id)
}

func (m *mockRepository) Search(ctx context.Context, filter SearchFilter) ([]Membership, int, error) {
	return m.searchFunc(ctx, filter)
}

func (m *mockRepository) TransferOwnership(ctx context.Context, orgID int64, memberIDs []int64, isOwner bool) (int64, error) {
	return m.transferFunc(ctx, orgID, memberIDs, isOwner)
}

// mockService is a func-field mock of ServiceInterface.
type mockService struct {
	createFunc   func(ctx context.Context, req CreateMembershipRequest, p *auth.Principal) (int64, error)
	updateFunc   func(ctx context.Context, id int64, req UpdateMembershipRequest, p *auth.Principal) (int64, error)
	getFunc      func(ctx context.Context, id int64, p *auth.Principal) (*Membership, error)
	deleteFunc   func(ctx context.Context, id int64, p *auth.Principal) (bool, error)
	searchFunc   func(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error)
	transferFunc func(ctx context.Context, orgID int64, req TransferOwnershipRequest, p *auth.Principal) error
}

func (m *mockService) CreateMembership(ctx context.Context, req CreateMembershipRequest, p *auth.Principal) (int64, error) {
	return m.createFunc(ctx, req, p)
}

func (m *mockService) UpdateMembership(ctx context.Context, id int64, req UpdateMembershipRequest, p *auth.Principal) (int64, error) {
	return m.updateFunc(ctx, id, req, p)
}

func (m *mockService) GetMembership(ctx context.Context, id int64, p *auth.Principal) (*Membership, error) {
	return m.getFunc(ctx, id, p)
}

func (m *mockService) DeleteMembership(ctx context.Context, id int64, p *auth.Principal) (bool, error) {
	return m.deleteFunc(ctx, id, p)
}

func (m *mockService) SearchMemberships(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error) {
	return m.searchFunc(ctx, filter, p)
}

func (m *mockService) TransferOwnership(ctx context.Context, orgID int64, req TransferOwnershipRequest, p *auth.Principal) error {
	return m.transferFunc(ctx, orgID, req, p)
}

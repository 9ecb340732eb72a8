package member

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

type mockRepository struct {
	createFunc func(ctx context.Context, req CreateMemberRequest) (*Member, error)
	getFunc    func(ctx context.Context, id int64) (*Member, error)
	searchFunc func(ctx context.Context, filter SearchFilter) ([]Member, int, error)
}

func (m *mockRepository) CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	return m.createFunc(ctx, req)
}

func (m *mockRepository) GetMember(ctx context.Context, id int64) (*Member, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepository) SearchMembers(ctx context.Context, filter SearchFilter) ([]Member, int, error) {
	return m.searchFunc(ctx, filter)
}

type mockService struct {
	createFunc func(ctx context.Context, req CreateMemberRequest, p *auth.Principal) (*Member, error)
	getFunc    func(ctx context.Context, id int64, p *auth.Principal) (*Member, error)
	searchFunc func(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error)
}

func (m *mockService) CreateMember(ctx context.Context, req CreateMemberRequest, p *auth.Principal) (*Member, error) {
	return m.createFunc(ctx, req, p)
}

func (m *mockService) GetMember(ctx context.Context, id int64, p *auth.Principal) (*Member, error) {
	return m.getFunc(ctx, id, p)
}

func (m *mockService) SearchMembers(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error) {
	return m.searchFunc(ctx, filter, p)
}

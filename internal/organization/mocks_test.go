package organization

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

type mockRepository struct {
	createFunc func(ctx context.Context, req CreateOrganizationRequest, createdBy string) (*Organization, error)
	getFunc    func(ctx context.Context, id int64) (*Organization, error)
	searchFunc func(ctx context.Context, filter SearchFilter) ([]Organization, int, error)
}

func (m *mockRepository) CreateOrganization(ctx context.Context, req CreateOrganizationRequest, createdBy string) (*Organization, error) {
	return m.createFunc(ctx, req, createdBy)
}

func (m *mockRepository) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepository) SearchOrganizations(ctx context.Context, filter SearchFilter) ([]Organization, int, error) {
	return m.searchFunc(ctx, filter)
}

type mockService struct {
	createFunc func(ctx context.Context, req CreateOrganizationRequest, p *auth.Principal) (*Organization, error)
	getFunc    func(ctx context.Context, id int64, p *auth.Principal) (*Organization, error)
	searchFunc func(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error)
}

func (m *mockService) CreateOrganization(ctx context.Context, req CreateOrganizationRequest, p *auth.Principal) (*Organization, error) {
	return m.createFunc(ctx, req, p)
}

func (m *mockService) GetOrganization(ctx context.Context, id int64, p *auth.Principal) (*Organization, error) {
	return m.getFunc(ctx, id, p)
}

func (m *mockService) SearchOrganizations(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error) {
	return m.searchFunc(ctx, filter, p)
}

package organization

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/membership-service/internal/validate"
	"github.com/sirupsen/logrus"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrganization(ctx context.Context, req CreateOrganizationRequest, principal *auth.Principal) (*Organization, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	createdBy := ""
	if principal != nil {
		createdBy = principal.UserID
	}

	org, err := s.repo.CreateOrganization(ctx, req, createdBy)
	if err != nil {
		return nil, apperr.Persistence("create organization", err)
	}

	logrus.Infof("Created organization %d (%s)", org.ID, org.Name)
	return org, nil
}

// GetOrganization lets non super admins read only their own organization.
func (s *Service) GetOrganization(ctx context.Context, id int64, principal *auth.Principal) (*Organization, error) {
	if principal != nil && !principal.IsSuperAdmin() {
		if orgID, ok := principal.OrganizationID(); !ok || orgID != id {
			return nil, ErrForbidden
		}
	}

	org, err := s.repo.GetOrganization(ctx, id)
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnknown {
			return nil, err
		}
		return nil, apperr.Persistence("get organization", err)
	}
	return org, nil
}

// SearchOrganizations is the directory lookup used to pick notification
// targets, so every authenticated caller may search all organizations.
func (s *Service) SearchOrganizations(ctx context.Context, filter SearchFilter, principal *auth.Principal) (*SearchResult, error) {
	orgs, total, err := s.repo.SearchOrganizations(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence("search organizations", err)
	}
	result := pagination.NewResult(orgs, total, filter.Params)
	return &result, nil
}

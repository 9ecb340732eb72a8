package member

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

func domainErr(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Persistence(op, err)
}

func (s *Service) CreateMember(ctx context.Context, req CreateMemberRequest, principal *auth.Principal) (*Member, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	m, err := s.repo.CreateMember(ctx, req)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			logrus.Warnf("Member for user %q already exists", req.UserID)
		}
		return nil, domainErr("create member", err)
	}

	by := ""
	if principal != nil {
		by = principal.UserID
	}
	logrus.Infof("Created member %d by %s", m.ID, by)
	return m, nil
}

func (s *Service) GetMember(ctx context.Context, id int64, principal *auth.Principal) (*Member, error) {
	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, domainErr("get member", err)
	}
	return m, nil
}

func (s *Service) SearchMembers(ctx context.Context, filter SearchFilter, principal *auth.Principal) (*SearchResult, error) {
	members, total, err := s.repo.SearchMembers(ctx, filter)
	if err != nil {
		return nil, domainErr("search members", err)
	}
	result := pagination.NewResult(members, total, filter.Params)
	return &result, nil
}

package status

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

var (
	ErrNoOrganization       = apperr.Forbidden("no organization in token")
	ErrForbidden            = apperr.Forbidden("forbidden - organization belongs to another tenant")
	ErrOrganizationRequired = apperr.Validation("organizationId is required")
)

// Moderation decides who may moderate an organization's notifications.
type Moderation interface {
	CanModerate(ctx context.Context, principal *auth.Principal, orgID int64) (bool, error)
}

type Service struct {
	repo       RepositoryInterface
	moderation Moderation
}

func NewService(repo RepositoryInterface, moderation Moderation) *Service {
	return &Service{repo: repo, moderation: moderation}
}

// resolveOrg returns the organization to report on. Super admins name it
// explicitly; everyone else gets their own.
func resolveOrg(principal *auth.Principal, requested *int64) (int64, error) {
	if principal != nil && principal.IsSuperAdmin() {
		if requested == nil {
			return 0, ErrOrganizationRequired
		}
		return *requested, nil
	}
	if principal == nil {
		return 0, ErrNoOrganization
	}
	orgID, ok := principal.OrganizationID()
	if !ok {
		return 0, ErrNoOrganization
	}
	if requested != nil && *requested != orgID {
		return 0, ErrForbidden
	}
	return orgID, nil
}

// GetCounts is read-only. awaitingApprovalCount stays 0 unless the caller is
// an admin of the organization.
func (s *Service) GetCounts(ctx context.Context, requested *int64, principal *auth.Principal) (*Counts, error) {
	orgID, err := resolveOrg(principal, requested)
	if err != nil {
		return nil, err
	}

	nc, err := s.repo.NotificationCounts(ctx, orgID)
	if err != nil {
		return nil, apperr.Persistence("count notifications", err)
	}
	mb, err := s.repo.MembershipBreakdown(ctx, orgID)
	if err != nil {
		return nil, apperr.Persistence("count memberships", err)
	}

	isAdmin, err := s.moderation.CanModerate(ctx, principal, orgID)
	if err != nil {
		return nil, err
	}

	c := &Counts{
		OrganizationID: orgID,
		InboxCount:     nc.Inbox,
		SentItems:      nc.Sent,
		IsAdmin:        isAdmin,
		Membership:     mb,
	}
	if isAdmin {
		c.AwaitingApprovalCount = nc.Pending
	}
	return c, nil
}

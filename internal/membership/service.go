package membership

import (
	"context"
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/membership-service/internal/validate"
	"github.com/sirupsen/logrus"
)

// MetricsRecorder records membership operation outcomes.
type MetricsRecorder interface {
	RecordMembershipOperation(ctx context.Context, operation string, success bool)
}

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, metrics: metrics}
}

func (s *Service) record(ctx context.Context, op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordMembershipOperation(ctx, op, err == nil)
	}
}

// authorizeOrg lets super admins act on any organization and everyone else
// only on the organization in their token.
func authorizeOrg(principal *auth.Principal, orgID int64) error {
	if principal == nil {
		return ErrNoOrganization
	}
	if principal.IsSuperAdmin() {
		return nil
	}
	callerOrg, ok := principal.OrganizationID()
	if !ok {
		return ErrNoOrganization
	}
	if callerOrg != orgID {
		return ErrForbidden
	}
	return nil
}

// domainErr passes classified errors through and wraps anything else as a
// persistence failure of op.
func domainErr(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Persistence(op, err)
}

func (s *Service) CreateMembership(ctx context.Context, req CreateMembershipRequest, principal *auth.Principal) (_ int64, err error) {
	defer func() { s.record(ctx, "create", err) }()

	if err := validate.Struct(req); err != nil {
		return 0, err
	}
	if err := authorizeOrg(principal, req.OrganizationID); err != nil {
		return 0, err
	}

	m, err := s.repo.Create(ctx, req)
	if err != nil {
		return 0, domainErr("create membership", err)
	}

	logrus.Infof("Created membership %d (organization %d, member %d)", m.ID, m.OrganizationID, m.MemberID)
	s.publish(ctx, messaging.EventMembershipCreated, m.ID, req.OrganizationID, req.MemberID, req.IsOrganizationInitiated, principal)
	return m.ID, nil
}

func (s *Service) UpdateMembership(ctx context.Context, id int64, req UpdateMembershipRequest, principal *auth.Principal) (_ int64, err error) {
	defer func() { s.record(ctx, "update", err) }()

	if id <= 0 {
		return 0, ErrInvalidID
	}
	if err := validate.Struct(req); err != nil {
		return 0, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, domainErr("get membership", err)
	}
	if err := authorizeOrg(principal, existing.OrganizationID); err != nil {
		return 0, err
	}
	if err := authorizeOrg(principal, req.OrganizationID); err != nil {
		return 0, err
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		return 0, domainErr("update membership", err)
	}

	logrus.Infof("Updated membership %d", id)
	s.publish(ctx, messaging.EventMembershipUpdated, id, req.OrganizationID, req.MemberID, req.IsOrganizationInitiated, principal)
	return id, nil
}

func (s *Service) GetMembership(ctx context.Context, id int64, principal *auth.Principal) (_ *Membership, err error) {
	defer func() { s.record(ctx, "get", err) }()

	if id <= 0 {
		return nil, ErrInvalidID
	}
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domainErr("get membership", err)
	}
	if err := authorizeOrg(principal, m.OrganizationID); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMembership returns false without error when nothing matched id.
func (s *Service) DeleteMembership(ctx context.Context, id int64, principal *auth.Principal) (_ bool, err error) {
	defer func() { s.record(ctx, "delete", err) }()

	if id <= 0 {
		return false, ErrInvalidID
	}

	existing, err := s.repo.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	if err != nil {
		return false, domainErr("get membership", err)
	}
	if err := authorizeOrg(principal, existing.OrganizationID); err != nil {
		return false, err
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		logrus.Errorf("Failed to delete membership %d: %v", id, err)
		return false, ErrDeleteFailed
	}
	if deleted {
		logrus.Infof("Deleted membership %d", id)
		s.publish(ctx, messaging.EventMembershipDeleted, id, existing.OrganizationID, existing.MemberID, existing.IsOrganizationInitiated, principal)
	}
	return deleted, nil
}

// SearchMemberships scopes callers other than super admins to their own organization.
func (s *Service) SearchMemberships(ctx context.Context, filter SearchFilter, principal *auth.Principal) (_ *SearchResult, err error) {
	defer func() { s.record(ctx, "search", err) }()

	if principal == nil {
		return nil, ErrNoOrganization
	}
	if !principal.IsSuperAdmin() {
		orgID, ok := principal.OrganizationID()
		if !ok {
			return nil, ErrNoOrganization
		}
		filter.OrganizationID = &orgID
	}

	rows, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, apperr.Persistence("search memberships", err)
	}

	result := pagination.NewResult(rows, total, filter.Params)
	return &result, nil
}

func (s *Service) TransferOwnership(ctx context.Context, orgID int64, req TransferOwnershipRequest, principal *auth.Principal) (err error) {
	defer func() { s.record(ctx, "transfer_ownership", err) }()

	if orgID <= 0 {
		return apperr.Validation("organization id must be a positive integer")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	if err := authorizeOrg(principal, orgID); err != nil {
		return err
	}

	affected, err := s.repo.TransferOwnership(ctx, orgID, req.MemberIDs, req.IsOwner)
	if err != nil {
		return domainErr("transfer ownership", err)
	}

	logrus.Infof("Set is_owner=%t on %d membership(s) of organization %d", req.IsOwner, affected, orgID)

	event := messaging.OwnershipTransferredEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventOwnershipTransferred),
		Data: messaging.OwnershipTransferredData{
			OrganizationID: orgID,
			MemberIDs:      distinct(req.MemberIDs),
			IsOwner:        req.IsOwner,
			ChangedBy:      principal.UserID,
			ChangedAt:      time.Now().UTC(),
		},
	}
	if err := s.publisher.Publish(ctx, messaging.EventOwnershipTransferred, event); err != nil {
		logrus.Warnf("Failed to publish %s event: %v", messaging.EventOwnershipTransferred, err)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, id, orgID, memberID int64, orgInitiated bool, principal *auth.Principal) {
	event := messaging.MembershipEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.MembershipData{
			MembershipID:            id,
			OrganizationID:          orgID,
			MemberID:                memberID,
			IsOrganizationInitiated: orgInitiated,
			ChangedBy:               principal.UserID,
			ChangedAt:               time.Now().UTC(),
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		logrus.Warnf("Failed to publish %s event: %v", eventType, err)
	}
}

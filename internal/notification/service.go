package notification

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

// PermissionModerate lets a role moderate its own organization's notifications.
// Owners of an organization may moderate it without the permission.
const PermissionModerate = "notification:moderate"

// MetricsRecorder records notification outcomes and state changes.
type MetricsRecorder interface {
	RecordNotificationOperation(ctx context.Context, operation string, success bool)
	RecordNotificationTransition(ctx context.Context, from, to string)
}

type Service struct {
	repo      RepositoryInterface
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
	perms     auth.Permissions
}

func NewService(repo RepositoryInterface, publisher messaging.PublisherInterface, metrics MetricsRecorder, perms auth.Permissions) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{repo: repo, publisher: publisher, metrics: metrics, perms: perms}
}

func (s *Service) record(ctx context.Context, op string, err error) {
	if s.metrics != nil {
		s.metrics.RecordNotificationOperation(ctx, op, err == nil)
	}
}

func domainErr(op string, err error) error {
	if apperr.KindOf(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Persistence(op, err)
}

func callerOrg(principal *auth.Principal) (int64, error) {
	if principal == nil {
		return 0, ErrNoOrganization
	}
	orgID, ok := principal.OrganizationID()
	if !ok {
		return 0, ErrNoOrganization
	}
	return orgID, nil
}

// authorizeCreator lets super admins act on any notification and everyone
// else only on notifications authored by their organization.
func authorizeCreator(principal *auth.Principal, creatorOrgID int64) error {
	if principal != nil && principal.IsSuperAdmin() {
		return nil
	}
	orgID, err := callerOrg(principal)
	if err != nil {
		return err
	}
	if orgID != creatorOrgID {
		return ErrForbidden
	}
	return nil
}

// CanModerate reports whether principal may approve or reject orgID's
// notifications: super admins, roles granted PermissionModerate, and owners.
func (s *Service) CanModerate(ctx context.Context, principal *auth.Principal, orgID int64) (bool, error) {
	if principal == nil {
		return false, nil
	}
	if principal.IsSuperAdmin() || auth.HasPermission(principal, PermissionModerate, s.perms) {
		return true, nil
	}
	owner, err := s.repo.IsOrganizationOwner(ctx, orgID, principal.UserID)
	if err != nil {
		return false, domainErr("check organization owner", err)
	}
	return owner, nil
}

func (s *Service) requireModerator(ctx context.Context, principal *auth.Principal, orgID int64) error {
	ok, err := s.CanModerate(ctx, principal, orgID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotModerator
	}
	return nil
}

func validateContent(c Content) error {
	if !c.NotifyAll && len(c.TargetOrganizationIDs) == 0 {
		return ErrNoTargets
	}
	return nil
}

func (s *Service) CreateNotification(ctx context.Context, req CreateNotificationRequest, principal *auth.Principal) (_ int64, err error) {
	defer func() { s.record(ctx, "create", err) }()

	if err := validate.Struct(req); err != nil {
		return 0, err
	}
	if err := validateContent(req.Content); err != nil {
		return 0, err
	}

	creator := req.CreatorOrganizationID
	if principal != nil && principal.IsSuperAdmin() {
		if creator == 0 {
			return 0, ErrCreatorRequired
		}
	} else {
		orgID, err := callerOrg(principal)
		if err != nil {
			return 0, err
		}
		if creator != 0 && creator != orgID {
			return 0, ErrForbidden
		}
		creator = orgID
	}

	status := StatusDraft
	if req.Submit {
		if status, err = Transition(ctx, status, EventSubmit); err != nil {
			return 0, err
		}
	}

	id, err := s.repo.Create(ctx, NewNotification{
		Content:               req.Content,
		CreatorOrganizationID: creator,
		CreatedByUserID:       principal.UserID,
		Status:                status,
	})
	if err != nil {
		return 0, domainErr("create notification", err)
	}

	logrus.Infof("Created notification %d for organization %d as %s", id, creator, status)
	if status == StatusPendingApproval {
		s.publish(ctx, messaging.EventNotificationSubmitted, &Notification{
			ID:                    id,
			CreatorOrganizationID: creator,
			Subject:               req.Subject,
			NotifyAll:             req.NotifyAll,
			TargetOrganizationIDs: req.TargetOrganizationIDs,
		}, StatusDraft, status, principal, "")
	}
	return id, nil
}

func (s *Service) UpdateNotification(ctx context.Context, id int64, req UpdateNotificationRequest, principal *auth.Principal) (_ int64, err error) {
	defer func() { s.record(ctx, "update", err) }()

	if err := validate.Struct(req); err != nil {
		return 0, err
	}
	if err := validateContent(req.Content); err != nil {
		return 0, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, domainErr("get notification", err)
	}
	if err := authorizeCreator(principal, existing.CreatorOrganizationID); err != nil {
		return 0, err
	}
	if !existing.Status.Editable() {
		return 0, ErrNotEditable
	}

	if err := s.repo.Update(ctx, id, req.Content, req.RemovedFiles); err != nil {
		return 0, domainErr("update notification", err)
	}

	logrus.Infof("Updated notification %d (%d documents removed, %d added)", id, len(req.RemovedFiles), len(req.Attachments))
	return id, nil
}

// DeleteNotification returns false without error when nothing matched id.
func (s *Service) DeleteNotification(ctx context.Context, id int64, principal *auth.Principal) (_ bool, err error) {
	defer func() { s.record(ctx, "delete", err) }()

	existing, err := s.repo.GetByID(ctx, id)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return false, nil
	}
	if err != nil {
		return false, domainErr("get notification", err)
	}
	if err := authorizeCreator(principal, existing.CreatorOrganizationID); err != nil {
		return false, err
	}
	if !existing.Status.Editable() {
		return false, ErrNotEditable
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, domainErr("delete notification", err)
	}
	if deleted {
		logrus.Infof("Deleted notification %d", id)
	}
	return deleted, nil
}

// GetNotification returns a notification to its author organization, to
// moderators while it awaits approval, and to its audience once approved.
func (s *Service) GetNotification(ctx context.Context, id int64, principal *auth.Principal) (*Notification, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domainErr("get notification", err)
	}
	if principal != nil && principal.IsSuperAdmin() {
		return n, nil
	}

	orgID, err := callerOrg(principal)
	if err != nil {
		return nil, err
	}
	switch {
	case n.CreatorOrganizationID == orgID:
		return n, nil
	case n.Status == StatusApproved && n.Targets(orgID):
		return n, nil
	}
	return nil, ErrForbidden
}

// SubmitNotification moves a draft to PendingApproval.
func (s *Service) SubmitNotification(ctx context.Context, id int64, principal *auth.Principal) (_ *Notification, err error) {
	defer func() { s.record(ctx, "submit", err) }()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domainErr("get notification", err)
	}
	if err := authorizeCreator(principal, existing.CreatorOrganizationID); err != nil {
		return nil, err
	}
	return s.transition(ctx, existing, EventSubmit, principal, "")
}

// UpdateStatus approves or rejects a pending notification.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest, principal *auth.Principal) (_ *Notification, err error) {
	defer func() { s.record(ctx, "update_status", err) }()

	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	event, ok := moderationEvent(req.Status)
	if !ok {
		return nil, ErrInvalidTransition
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domainErr("get notification", err)
	}
	if err := authorizeCreator(principal, existing.CreatorOrganizationID); err != nil {
		return nil, err
	}
	if err := s.requireModerator(ctx, principal, existing.CreatorOrganizationID); err != nil {
		return nil, err
	}
	return s.transition(ctx, existing, event, principal, req.Notes)
}

func (s *Service) transition(ctx context.Context, n *Notification, event string, principal *auth.Principal, notes string) (*Notification, error) {
	from := n.Status
	to, err := Transition(ctx, from, event)
	if err != nil {
		logrus.Warnf("Rejected %s of notification %d in status %s", event, n.ID, from)
		return nil, err
	}

	if err := s.repo.TransitionStatus(ctx, n.ID, from, to, principal.UserID, notes); err != nil {
		return nil, domainErr("update notification status", err)
	}
	if s.metrics != nil {
		s.metrics.RecordNotificationTransition(ctx, string(from), string(to))
	}

	updated, err := s.repo.GetByID(ctx, n.ID)
	if err != nil {
		return nil, domainErr("get notification", err)
	}

	logrus.Infof("Notification %d moved %s -> %s by %s", n.ID, from, to, principal.UserID)
	switch to {
	case StatusPendingApproval:
		s.publish(ctx, messaging.EventNotificationSubmitted, updated, from, to, principal, notes)
	case StatusApproved:
		s.publish(ctx, messaging.EventNotificationApproved, updated, from, to, principal, notes)
	case StatusRejected:
		s.publish(ctx, messaging.EventNotificationRejected, updated, from, to, principal, notes)
	}
	return updated, nil
}

// SearchNotifications serves the inbox, sent and awaiting-approval views.
// Callers other than super admins always see their own organization's view.
func (s *Service) SearchNotifications(ctx context.Context, filter SearchFilter, principal *auth.Principal) (_ *SearchResult, err error) {
	defer func() { s.record(ctx, "search", err) }()

	if !filter.View.Valid() {
		return nil, ErrInvalidView
	}

	if principal == nil || !principal.IsSuperAdmin() {
		orgID, err := callerOrg(principal)
		if err != nil {
			return nil, err
		}
		filter.OrganizationID = &orgID
		if filter.View == ViewAwaiting {
			if err := s.requireModerator(ctx, principal, orgID); err != nil {
				return nil, err
			}
		}
	} else if filter.OrganizationID == nil && filter.View != ViewAwaiting {
		return nil, ErrOrganizationRequired
	}

	rows, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, domainErr("search notifications", err)
	}
	result := pagination.NewResult(rows, total, filter.Params)
	return &result, nil
}

func (s *Service) publish(ctx context.Context, eventType string, n *Notification, from, to Status, principal *auth.Principal, notes string) {
	event := messaging.NotificationStatusEvent{
		BaseEvent: messaging.NewBaseEvent(eventType),
		Data: messaging.NotificationStatusData{
			NotificationID:        n.ID,
			CreatorOrganizationID: n.CreatorOrganizationID,
			Subject:               n.Subject,
			OldStatus:             string(from),
			NewStatus:             string(to),
			NotifyAll:             n.NotifyAll,
			TargetOrganizationIDs: n.TargetOrganizationIDs,
			ChangedBy:             principal.UserID,
			Notes:                 notes,
			ChangedAt:             time.Now().UTC(),
		},
	}
	if err := s.publisher.Publish(ctx, eventType, event); err != nil {
		logrus.Warnf("Failed to publish %s event: %v", eventType, err)
	}
}

package notification

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

type mockRepository struct {
	createFunc     func(ctx context.Context, n NewNotification) (int64, error)
	getFunc        func(ctx context.Context, id int64) (*Notification, error)
	updateFunc     func(ctx context.Context, id int64, c Content, removedFiles []int64) error
	deleteFunc     func(ctx context.Context, id int64) (bool, error)
	transitionFunc func(ctx context.Context, id int64, from, to Status, moderatorID, notes string) error
	searchFunc     func(ctx context.Context, filter SearchFilter) ([]Notification, int, error)
	ownerFunc      func(ctx context.Context, orgID int64, userID string) (bool, error)
}

func (m *mockRepository) Create(ctx context.Context, n NewNotification) (int64, error) {
	return m.createFunc(ctx, n)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (*Notification, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRepository) Update(ctx context.Context, id int64, c Content, removedFiles []int64) error {
	return m.updateFunc(ctx, id, c, removedFiles)
}

func (m *mockRepository) Delete(ctx context.Context, id int64) (bool, error) {
	return m.deleteFunc(ctx, id)
}

func (m *mockRepository) TransitionStatus(ctx context.Context, id int64, from, to Status, moderatorID, notes string) error {
	return m.transitionFunc(ctx, id, from, to, moderatorID, notes)
}

func (m *mockRepository) Search(ctx context.Context, filter SearchFilter) ([]Notification, int, error) {
	return m.searchFunc(ctx, filter)
}

// IsOrganizationOwner defaults to false when ownerFunc is unset.
func (m *mockRepository) IsOrganizationOwner(ctx context.Context, orgID int64, userID string) (bool, error) {
	if m.ownerFunc == nil {
		return false, nil
	}
	return m.ownerFunc(ctx, orgID, userID)
}

type mockService struct {
	createFunc func(ctx context.Context, req CreateNotificationRequest, p *auth.Principal) (int64, error)
	updateFunc func(ctx context.Context, id int64, req UpdateNotificationRequest, p *auth.Principal) (int64, error)
	deleteFunc func(ctx context.Context, id int64, p *auth.Principal) (bool, error)
	getFunc    func(ctx context.Context, id int64, p *auth.Principal) (*Notification, error)
	submitFunc func(ctx context.Context, id int64, p *auth.Principal) (*Notification, error)
	statusFunc func(ctx context.Context, id int64, req UpdateStatusRequest, p *auth.Principal) (*Notification, error)
	searchFunc func(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error)
}

func (m *mockService) CreateNotification(ctx context.Context, req CreateNotificationRequest, p *auth.Principal) (int64, error) {
	return m.createFunc(ctx, req, p)
}

func (m *mockService) UpdateNotification(ctx context.Context, id int64, req UpdateNotificationRequest, p *auth.Principal) (int64, error) {
	return m.updateFunc(ctx, id, req, p)
}

func (m *mockService) DeleteNotification(ctx context.Context, id int64, p *auth.Principal) (bool, error) {
	return m.deleteFunc(ctx, id, p)
}

func (m *mockService) GetNotification(ctx context.Context, id int64, p *auth.Principal) (*Notification, error) {
	return m.getFunc(ctx, id, p)
}

func (m *mockService) SubmitNotification(ctx context.Context, id int64, p *auth.Principal) (*Notification, error) {
	return m.submitFunc(ctx, id, p)
}

func (m *mockService) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest, p *auth.Principal) (*Notification, error) {
	return m.statusFunc(ctx, id, req, p)
}

func (m *mockService) SearchNotifications(ctx context.Context, filter SearchFilter, p *auth.Principal) (*SearchResult, error) {
	return m.searchFunc(ctx, filter, p)
}

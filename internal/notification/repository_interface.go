package notification

import "context"

// RepositoryInterface defines the contract for notification data access
type RepositoryInterface interface {
	Create(ctx context.Context, n NewNotification) (int64, error)
	GetByID(ctx context.Context, id int64) (*Notification, error)
	Update(ctx context.Context, id int64, content Content, removedFiles []int64) error
	Delete(ctx context.Context, id int64) (bool, error)
	TransitionStatus(ctx context.Context, id int64, from, to Status, moderatorID, notes string) error
	Search(ctx context.Context, filter SearchFilter) ([]Notification, int, error)
	IsOrganizationOwner(ctx context.Context, orgID int64, userID string) (bool, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)

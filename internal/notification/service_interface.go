package notification

import (
	"context"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
)

// ServiceInterface defines the contract for the notification workflow
type ServiceInterface interface {
	CreateNotification(ctx context.Context, req CreateNotificationRequest, principal *auth.Principal) (int64, error)
	UpdateNotification(ctx context.Context, id int64, req UpdateNotificationRequest, principal *auth.Principal) (int64, error)
	DeleteNotification(ctx context.Context, id int64, principal *auth.Principal) (bool, error)
	GetNotification(ctx context.Context, id int64, principal *auth.Principal) (*Notification, error)
	SubmitNotification(ctx context.Context, id int64, principal *auth.Principal) (*Notification, error)
	UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest, principal *auth.Principal) (*Notification, error)
	SearchNotifications(ctx context.Context, filter SearchFilter, principal *auth.Principal) (*SearchResult, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)

package status

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RepositoryInterface defines the contract for aggregate reads
type RepositoryInterface interface {
	NotificationCounts(ctx context.Context, orgID int64) (NotificationCounts, error)
	MembershipBreakdown(ctx context.Context, orgID int64) (MembershipBreakdown, error)
}

var _ RepositoryInterface = (*Repository)(nil)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: sqlx.NewDb(conn, "postgres")}
}

// NotificationCounts counts the inbox, sent and pending views of orgID using
// the same predicates the views themselves use.
func (r *Repository) NotificationCounts(ctx context.Context, orgID int64) (NotificationCounts, error) {
	q := `
		SELECT
			(SELECT COUNT(*) FROM notifications n
			 WHERE n.status = 'Approved'
			   AND ((n.notify_all AND EXISTS (SELECT 1 FROM organizations ao WHERE ao.id = $1))
			        OR EXISTS (SELECT 1 FROM notification_targets t
			                   WHERE t.notification_id = n.id AND t.organization_id = $1))) AS inbox_count,
			(SELECT COUNT(*) FROM notifications n WHERE n.creator_organization_id = $1) AS sent_items,
			(SELECT COUNT(*) FROM notifications n
			 WHERE n.creator_organization_id = $1 AND n.status = 'PendingApproval') AS pending_count`

	var c NotificationCounts
	if err := r.db.GetContext(ctx, &c, q, orgID); err != nil {
		return NotificationCounts{}, fmt.Errorf("failed to count notifications: %w", err)
	}
	return c, nil
}

func (r *Repository) MembershipBreakdown(ctx context.Context, orgID int64) (MembershipBreakdown, error) {
	q := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE is_owner) AS owners,
			COUNT(*) FILTER (WHERE is_organization_initiated) AS organization_initiated,
			COUNT(*) FILTER (WHERE NOT is_organization_initiated) AS member_initiated
		FROM memberships
		WHERE organization_id = $1`

	var b MembershipBreakdown
	if err := r.db.GetContext(ctx, &b, q, orgID); err != nil {
		return MembershipBreakdown{}, fmt.Errorf("failed to count memberships: %w", err)
	}
	return b, nil
}

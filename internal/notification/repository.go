package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/membership-service/internal/db"
	"github.com/WailSalutem-Health-Care/membership-service/internal/query"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const fkCreatorOrganization = "notifications_creator_organization_id_fkey"

const selectColumns = `
	n.id, n.creator_organization_id, o.name AS creator_organization_name, n.subject, n.body,
	n.event_date, COALESCE(n.venue, '') AS venue, n.venue_district_id, n.venue_ward_id,
	n.notify_all, n.status, n.created_by_user_id, n.approver_user_id, n.approved_date,
	n.notes, n.created_at, n.updated_at,
	ARRAY(SELECT t.organization_id FROM notification_targets t
	      WHERE t.notification_id = n.id ORDER BY t.organization_id) AS target_organization_ids`

const fromNotifications = `FROM notifications n JOIN organizations o ON o.id = n.creator_organization_id`

type Repository struct {
	conn *sql.DB
	db   *sqlx.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{conn: conn, db: sqlx.NewDb(conn, "postgres")}
}

func translateWriteError(err error) error {
	if db.IsForeignKeyViolation(err) {
		if db.ConstraintName(err) == fkCreatorOrganization {
			return ErrOrganizationNotFound
		}
		return ErrTargetOrganizationNotFound
	}
	return err
}

// Create inserts the notification with its targets and documents atomically.
func (r *Repository) Create(ctx context.Context, n NewNotification) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		q := `
			INSERT INTO notifications (
				creator_organization_id, subject, body, event_date, venue,
				venue_district_id, venue_ward_id, notify_all, status, created_by_user_id
			)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)
			RETURNING id`

		err := tx.QueryRowContext(ctx, q,
			n.CreatorOrganizationID,
			n.Subject,
			n.Body,
			n.EventDate,
			n.Venue,
			n.VenueDistrictID,
			n.VenueWardID,
			n.NotifyAll,
			string(n.Status),
			n.CreatedByUserID,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert notification: %w", translateWriteError(err))
		}

		if err := replaceTargets(ctx, tx, id, n.NotifyAll, n.TargetOrganizationIDs); err != nil {
			return err
		}
		return insertDocuments(ctx, tx, id, n.Attachments)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// replaceTargets drops the explicit target set and, unless notifyAll is set,
// stores targets in its place. notifyAll audiences are resolved at read time.
func replaceTargets(ctx context.Context, tx *sql.Tx, id int64, notifyAll bool, targets []int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM notification_targets WHERE notification_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear notification targets: %w", err)
	}
	if notifyAll || len(targets) == 0 {
		return nil
	}

	q := `
		INSERT INTO notification_targets (notification_id, organization_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING`
	if _, err := tx.ExecContext(ctx, q, id, pq.Array(targets)); err != nil {
		return fmt.Errorf("failed to insert notification targets: %w", translateWriteError(err))
	}
	return nil
}

func insertDocuments(ctx context.Context, tx *sql.Tx, id int64, attachments []Attachment) error {
	for _, a := range attachments {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notification_documents (notification_id, file_name, file_url) VALUES ($1, $2, $3)`,
			id, a.FileName, a.FileURL,
		)
		if err != nil {
			return fmt.Errorf("failed to insert notification document: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Notification, error) {
	var n Notification
	q := fmt.Sprintf(`SELECT %s %s WHERE n.id = $1`, selectColumns, fromNotifications)
	err := r.db.GetContext(ctx, &n, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	list := []Notification{n}
	if err := r.attachDocuments(ctx, list); err != nil {
		return nil, err
	}
	list[0].IsEditable = list[0].Status.Editable()
	return &list[0], nil
}

func (r *Repository) attachDocuments(ctx context.Context, list []Notification) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	index := make(map[int64]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].Documents = []Document{}
	}

	var docs []Document
	err := r.db.SelectContext(ctx, &docs,
		`SELECT id, notification_id, file_name, file_url, created_at
		 FROM notification_documents WHERE notification_id = ANY($1) ORDER BY id`,
		pq.Array(ids),
	)
	if err != nil {
		return fmt.Errorf("failed to load notification documents: %w", err)
	}
	for _, d := range docs {
		if i, ok := index[d.NotificationID]; ok {
			list[i].Documents = append(list[i].Documents, d)
		}
	}
	return nil
}

// Update rewrites content, detaches removedFiles, appends new attachments and
// replaces the target set. Approved rows are never touched.
func (r *Repository) Update(ctx context.Context, id int64, c Content, removedFiles []int64) error {
	return db.WithTx(ctx, r.conn, func(tx *sql.Tx) error {
		q := `
			UPDATE notifications
			SET subject = $1, body = $2, event_date = $3, venue = NULLIF($4, ''),
			    venue_district_id = $5, venue_ward_id = $6, notify_all = $7, updated_at = NOW()
			WHERE id = $8 AND status <> 'Approved'`

		res, err := tx.ExecContext(ctx, q,
			c.Subject,
			c.Body,
			c.EventDate,
			c.Venue,
			c.VenueDistrictID,
			c.VenueWardID,
			c.NotifyAll,
			id,
		)
		if err != nil {
			return fmt.Errorf("failed to update notification: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return ErrUpdateFailed
		}

		if len(removedFiles) > 0 {
			_, err := tx.ExecContext(ctx,
				`DELETE FROM notification_documents WHERE notification_id = $1 AND id = ANY($2)`,
				id, pq.Array(removedFiles),
			)
			if err != nil {
				return fmt.Errorf("failed to detach notification documents: %w", err)
			}
		}
		if err := insertDocuments(ctx, tx, id, c.Attachments); err != nil {
			return err
		}
		return replaceTargets(ctx, tx, id, c.NotifyAll, c.TargetOrganizationIDs)
	})
}

// Delete removes a non-approved notification. Targets and documents cascade.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1 AND status <> 'Approved'`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete notification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// TransitionStatus moves id from one status to another only if it is still in
// from, so of two concurrent moderators exactly one succeeds.
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from, to Status, moderatorID, notes string) error {
	q := `
		UPDATE notifications
		SET status = $1, notes = COALESCE(NULLIF($2, ''), notes), updated_at = NOW()
		WHERE id = $3 AND status = $4`
	args := []any{string(to), notes, id, string(from)}

	if to == StatusApproved {
		q = `
			UPDATE notifications
			SET status = $1, notes = COALESCE(NULLIF($2, ''), notes), updated_at = NOW(),
			    approver_user_id = $5, approved_date = NOW()
			WHERE id = $3 AND status = $4`
		args = append(args, moderatorID)
	}

	res, err := r.conn.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// viewPredicate adds the WHERE conditions that define a view.
func viewPredicate(b *query.Builder, filter SearchFilter) {
	switch filter.View {
	case ViewInbox:
		b.Where("n.status = ?", string(StatusApproved))
		b.Where(`(
			(n.notify_all AND EXISTS (SELECT 1 FROM organizations ao WHERE ao.id = ?))
			OR EXISTS (SELECT 1 FROM notification_targets t WHERE t.notification_id = n.id AND t.organization_id = ?)
		)`, *filter.OrganizationID, *filter.OrganizationID)
	case ViewSent:
		b.Equal("n.creator_organization_id", *filter.OrganizationID)
		b.EqualString("n.status", string(filter.Status))
	case ViewAwaiting:
		b.Where("n.status = ?", string(StatusPendingApproval))
		b.EqualInt64("n.creator_organization_id", filter.OrganizationID)
	}
}

// Search returns one page of a view, newest first.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]Notification, int, error) {
	b := query.New().
		Prefix("n.subject", filter.Subject).
		Prefix("n.venue", filter.Venue).
		EqualInt64("n.venue_district_id", filter.VenueDistrictID).
		EqualInt64("n.venue_ward_id", filter.VenueWardID)
	viewPredicate(b, filter)
	where, args := b.Build()

	q := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count %s %s ORDER BY n.created_at DESC, n.id DESC`,
		selectColumns, fromNotifications, where)
	q, args = filter.Apply(q, args)

	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search notifications: %w", err)
	}

	list := make([]Notification, 0, len(rows))
	total := 0
	if len(rows) > 0 {
		total = rows[0].TotalCount
	}
	for _, row := range rows {
		row.Notification.IsEditable = row.Status.Editable()
		list = append(list, row.Notification)
	}
	if err := r.attachDocuments(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// IsOrganizationOwner reports whether userID holds an owner membership in orgID.
func (r *Repository) IsOrganizationOwner(ctx context.Context, orgID int64, userID string) (bool, error) {
	var owner bool
	err := r.db.GetContext(ctx, &owner, ownerQuery, orgID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check organization owner: %w", err)
	}
	return owner, nil
}

// ownerQuery checks for an owner membership of a user in an organization.
const ownerQuery = `
	SELECT EXISTS (
		SELECT 1 FROM memberships ms JOIN members m ON m.id = ms.member_id
		WHERE ms.organization_id = $1 AND ms.is_owner AND m.user_id = $2
	)`

type notificationRow struct {
	Notification
	TotalCount int `db:"total_count"`
}

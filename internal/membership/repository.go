package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/WailSalutem-Health-Care/membership-service/internal/db"
	"github.com/WailSalutem-Health-Care/membership-service/internal/query"
	"github.com/lib/pq"
)

const fkOrganization = "memberships_organization_id_fkey"

const selectColumns = `
	SELECT ms.id, ms.organization_id, o.name, ms.member_id, m.full_name,
	       ms.is_organization_initiated, ms.is_owner, ms.status, ms.created_at, ms.updated_at`

const fromJoined = `
	FROM memberships ms
	JOIN organizations o ON o.id = ms.organization_id
	JOIN members m ON m.id = ms.member_id`

// existenceQuery reports, in one round trip, whether the organization and member
// exist and whether another membership already binds them. $3 is the id to
// ignore when looking for duplicates; 0 matches nothing.
const existenceQuery = `
	SELECT
		EXISTS (SELECT 1 FROM organizations WHERE id = $1),
		EXISTS (SELECT 1 FROM members WHERE id = $2),
		EXISTS (SELECT 1 FROM memberships WHERE organization_id = $1 AND member_id = $2 AND id <> $3)`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMembership(row rowScanner, extra ...any) (*Membership, error) {
	m := &Membership{}
	var updatedAt sql.NullTime
	dest := []any{
		&m.ID,
		&m.OrganizationID,
		&m.OrganizationName,
		&m.MemberID,
		&m.MemberName,
		&m.IsOrganizationInitiated,
		&m.IsOwner,
		&m.Status,
		&m.CreatedAt,
		&updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		m.UpdatedAt = &t
	}
	return m, nil
}

func checkReferences(ctx context.Context, tx *sql.Tx, orgID, memberID, excludeID int64) error {
	var orgExists, memberExists, duplicate bool
	if err := tx.QueryRowContext(ctx, existenceQuery, orgID, memberID, excludeID).
		Scan(&orgExists, &memberExists, &duplicate); err != nil {
		return fmt.Errorf("failed to check membership references: %w", err)
	}
	switch {
	case !orgExists:
		return ErrOrganizationNotFound
	case !memberExists:
		return ErrMemberNotFound
	case duplicate:
		return ErrMembershipAlreadyExists
	}
	return nil
}

// translateWriteError maps constraint violations raised by the final write
// onto the same errors the reference check reports.
func translateWriteError(err error, op string) error {
	switch {
	case db.IsUniqueViolation(err):
		return ErrMembershipAlreadyExists
	case db.IsForeignKeyViolation(err):
		if db.ConstraintName(err) == fkOrganization {
			return ErrOrganizationNotFound
		}
		return ErrMemberNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// Create checks references and inserts in one transaction. The unique constraint on
// (organization_id, member_id) catches a concurrent insert that slipped past
// the reference check.
func (r *Repository) Create(ctx context.Context, req CreateMembershipRequest) (*Membership, error) {
	m := &Membership{
		OrganizationID:          req.OrganizationID,
		MemberID:                req.MemberID,
		IsOrganizationInitiated: req.IsOrganizationInitiated,
		Status:                  StatusActive,
	}

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, req.OrganizationID, req.MemberID, 0); err != nil {
			return err
		}

		err := tx.QueryRowContext(ctx, `
			INSERT INTO memberships (organization_id, member_id, is_organization_initiated, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			req.OrganizationID, req.MemberID, req.IsOrganizationInitiated, StatusActive,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return translateWriteError(err, "insert membership")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Update rewrites the binding after the same reference check as Create, ignoring the
// row being updated when looking for duplicates.
func (r *Repository) Update(ctx context.Context, id int64, req UpdateMembershipRequest) error {
	return db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkReferences(ctx, tx, req.OrganizationID, req.MemberID, id); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE memberships
			SET organization_id = $1, member_id = $2, is_organization_initiated = $3, updated_at = NOW()
			WHERE id = $4`,
			req.OrganizationID, req.MemberID, req.IsOrganizationInitiated, id,
		)
		if err != nil {
			return translateWriteError(err, "update membership")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return ErrUpdateFailed
		}
		return nil
	})
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Membership, error) {
	q := selectColumns + fromJoined + ` WHERE ms.id = $1`

	m, err := scanMembership(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}
	return m, nil
}

// Delete hard-deletes the row and reports whether anything was removed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// Search returns one page of matches and the total number of matches. The
// total rides along on every row as total_count; an empty page yields 0.
func (r *Repository) Search(ctx context.Context, filter SearchFilter) ([]Membership, int, error) {
	b := query.New().
		Prefix("o.name", filter.OrganizationName).
		Prefix("m.full_name", filter.MemberName).
		EqualInt64("ms.organization_id", filter.OrganizationID).
		EqualInt64("ms.member_id", filter.MemberID).
		EqualInt64("o.type_id", filter.TypeID).
		EqualInt64("o.district_id", filter.DistrictID).
		EqualInt64("o.ward_id", filter.WardID).
		EqualBool("ms.is_owner", filter.IsOwner).
		EqualBool("ms.is_organization_initiated", filter.IsOrganizationInitiated)
	where, args := b.Build()

	q := strings.Join([]string{
		selectColumns + `, COUNT(*) OVER() AS total_count`,
		fromJoined,
		where,
		`ORDER BY ms.id`,
	}, "\n")
	q, args = filter.Params.Apply(q, args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search memberships: %w", err)
	}
	defer rows.Close()

	var (
		result []Membership
		total  int
	)
	for rows.Next() {
		var rowTotal int
		m, err := scanMembership(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan membership: %w", err)
		}
		if len(result) == 0 {
			total = rowTotal
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate memberships: %w", err)
	}
	return result, total, nil
}

// TransferOwnership sets is_owner on every membership of orgID whose member
// is in memberIDs. Either every listed member is updated or nothing is.
func (r *Repository) TransferOwnership(ctx context.Context, orgID int64, memberIDs []int64, isOwner bool) (int64, error) {
	ids := distinct(memberIDs)
	var affected int64

	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE memberships
			SET is_owner = $1, updated_at = NOW()
			WHERE organization_id = $2 AND member_id = ANY($3)`,
			isOwner, orgID, pq.Array(ids),
		)
		if err != nil {
			return fmt.Errorf("failed to transfer ownership: %w", err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 || affected < int64(len(ids)) {
			return ErrOwnershipUpdateFailed
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func distinct(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

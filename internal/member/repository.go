package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/membership-service/internal/db"
	"github.com/WailSalutem-Health-Care/membership-service/internal/query"
	"github.com/jmoiron/sqlx"
)

const columns = `id, user_id, full_name, COALESCE(email, '') AS email, COALESCE(phone, '') AS phone,
	district_id, ward_id, created_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sql.DB) *Repository {
	return &Repository{db: sqlx.NewDb(conn, "postgres")}
}

func (r *Repository) CreateMember(ctx context.Context, req CreateMemberRequest) (*Member, error) {
	q := `
		INSERT INTO members (user_id, full_name, email, phone, district_id, ward_id)
		VALUES (NULLIF($1, ''), $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6)
		RETURNING ` + columns

	var m Member
	err := r.db.GetContext(ctx, &m, q,
		req.UserID,
		req.FullName,
		req.Email,
		req.Phone,
		req.DistrictID,
		req.WardID,
	)
	if db.IsUniqueViolation(err) {
		return nil, ErrUserAlreadyMember
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert member: %w", err)
	}
	return &m, nil
}

func (r *Repository) GetMember(ctx context.Context, id int64) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+columns+` FROM members WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

type memberRow struct {
	Member
	TotalCount int `db:"total_count"`
}

func (r *Repository) SearchMembers(ctx context.Context, filter SearchFilter) ([]Member, int, error) {
	where, args := query.New().
		Prefix("full_name", filter.FullName).
		Prefix("email", filter.Email).
		EqualInt64("district_id", filter.DistrictID).
		EqualInt64("ward_id", filter.WardID).
		Build()

	q := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM members %s ORDER BY full_name, id`, columns, where)
	q, args = filter.Apply(q, args)

	var rows []memberRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search members: %w", err)
	}

	members := make([]Member, 0, len(rows))
	total := 0
	if len(rows) > 0 {
		total = rows[0].TotalCount
	}
	for _, row := range rows {
		members = append(members, row.Member)
	}
	return members, total, nil
}

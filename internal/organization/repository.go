package organization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/WailSalutem-Health-Care/membership-service/internal/query"
	"github.com/jmoiron/sqlx"
)

const columns = `id, name, type_id, district_id, ward_id, COALESCE(address, '') AS address,
	COALESCE(created_by, '') AS created_by, created_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: sqlx.NewDb(db, "postgres")}
}

func (r *Repository) CreateOrganization(ctx context.Context, req CreateOrganizationRequest, createdBy string) (*Organization, error) {
	q := `
		INSERT INTO organizations (name, type_id, district_id, ward_id, address, created_by)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING ` + columns

	var org Organization
	err := r.db.GetContext(ctx, &org, q,
		req.Name,
		req.TypeID,
		req.DistrictID,
		req.WardID,
		req.Address,
		createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert organization: %w", err)
	}
	return &org, nil
}

func (r *Repository) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var org Organization
	err := r.db.GetContext(ctx, &org, `SELECT `+columns+` FROM organizations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

type organizationRow struct {
	Organization
	TotalCount int `db:"total_count"`
}

// SearchOrganizations returns one page of matches plus the total match count.
func (r *Repository) SearchOrganizations(ctx context.Context, filter SearchFilter) ([]Organization, int, error) {
	where, args := query.New().
		Prefix("name", filter.Name).
		EqualInt64("type_id", filter.TypeID).
		EqualInt64("district_id", filter.DistrictID).
		EqualInt64("ward_id", filter.WardID).
		Build()

	q := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count FROM organizations %s ORDER BY name, id`, columns, where)
	q, args = filter.Apply(q, args)

	var rows []organizationRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to search organizations: %w", err)
	}

	orgs := make([]Organization, 0, len(rows))
	total := 0
	for i, row := range rows {
		if i == 0 {
			total = row.TotalCount
		}
		orgs = append(orgs, row.Organization)
	}
	return orgs, total, nil
}

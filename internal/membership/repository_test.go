package membership

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var membershipColumns = []string{
	"id", "organization_id", "name", "member_id", "full_name",
	"is_organization_initiated", "is_owner", "status", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(conn), mock
}

func existenceRows(org, member, dup bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"org", "member", "dup"}).AddRow(org, member, dup)
}

func TestRepositoryCreate_Success(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+EXISTS`).WithArgs(int64(10), int64(20), int64(0)).WillReturnRows(existenceRows(true, true, false))
	mock.ExpectQuery(`INSERT INTO memberships`).
		WithArgs(int64(10), int64(20), true, StatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))
	mock.ExpectCommit()

	m, err := repo.Create(context.Background(), CreateMembershipRequest{OrganizationID: 10, MemberID: 20, IsOrganizationInitiated: true})

	require.NoError(t, err)
	assert.Equal(t, int64(7), m.ID)
	assert.Equal(t, StatusActive, m.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreate_ReferenceCheckFailures(t *testing.T) {
	tests := []struct {
		name             string
		org, member, dup bool
		want             error
	}{
		{"organization missing", false, true, false, ErrOrganizationNotFound},
		{"member missing", true, false, false, ErrMemberNotFound},
		{"duplicate", true, true, true, ErrMembershipAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT\s+EXISTS`).WillReturnRows(existenceRows(tt.org, tt.member, tt.dup))
			mock.ExpectRollback()

			_, err := repo.Create(context.Background(), CreateMembershipRequest{OrganizationID: 10, MemberID: 20})

			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet(), "insert must not run after a failed reference check")
		})
	}
}

func TestRepositoryCreate_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name  string
		pqErr *pq.Error
		want  error
	}{
		{"concurrent duplicate", &pq.Error{Code: "23505", Constraint: "uq_memberships_org_member"}, ErrMembershipAlreadyExists},
		{"organization deleted", &pq.Error{Code: "23503", Constraint: fkOrganization}, ErrOrganizationNotFound},
		{"member deleted", &pq.Error{Code: "23503", Constraint: "memberships_member_id_fkey"}, ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery(`SELECT\s+EXISTS`).WillReturnRows(existenceRows(true, true, false))
			mock.ExpectQuery(`INSERT INTO memberships`).WillReturnError(tt.pqErr)
			mock.ExpectRollback()

			_, err := repo.Create(context.Background(), CreateMembershipRequest{OrganizationID: 10, MemberID: 20})

			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepositoryCreate_ReferenceCheckError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+EXISTS`).WillReturnError(errors.New("connection refused"))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), CreateMembershipRequest{OrganizationID: 10, MemberID: 20})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check membership references")
	assert.Equal(t, apperr.KindUnknown, apperr.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdate(t *testing.T) {
	t.Run("excludes itself from the duplicate check", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT\s+EXISTS`).WithArgs(int64(10), int64(20), int64(7)).WillReturnRows(existenceRows(true, true, false))
		mock.ExpectExec(`UPDATE memberships`).WithArgs(int64(10), int64(20), false, int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Update(context.Background(), 7, UpdateMembershipRequest{OrganizationID: 10, MemberID: 20})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows is update failed", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT\s+EXISTS`).WillReturnRows(existenceRows(true, true, false))
		mock.ExpectExec(`UPDATE memberships`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Update(context.Background(), 99, UpdateMembershipRequest{OrganizationID: 10, MemberID: 20})

		assert.ErrorIs(t, err, ErrUpdateFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepositoryGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		updated := time.Now()

		mock.ExpectQuery(`FROM memberships ms`).WithArgs(int64(3)).WillReturnRows(
			sqlmock.NewRows(membershipColumns).AddRow(int64(3), int64(10), "Acme", int64(20), "Jane Doe", true, false, "active", time.Now(), updated),
		)

		m, err := repo.GetByID(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, "Acme", m.OrganizationName)
		assert.Equal(t, "Jane Doe", m.MemberName)
		require.NotNil(t, m.UpdatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`FROM memberships ms`).WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), 3)

		assert.ErrorIs(t, err, ErrMembershipNotFound)
	})
}

func TestRepositoryDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM memberships`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM memberships`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRepositorySearch_PageWindowAndTotal(t *testing.T) {
	repo, mock := newMockRepo(t)
	district := int64(5)

	rows := sqlmock.NewRows(append(append([]string{}, membershipColumns...), "total_count"))
	for i := 11; i <= 20; i++ {
		rows.AddRow(int64(i), int64(10), "Acme", int64(100+i), "Member", false, false, "active", time.Now(), nil, 25)
	}

	mock.ExpectQuery(`WHERE o.district_id = \$1\s+ORDER BY ms.id LIMIT \$2 OFFSET \$3`).
		WithArgs(int64(5), 10, 10).
		WillReturnRows(rows)

	filter := SearchFilter{DistrictID: &district, Params: pagination.New(2, 10)}
	got, total, err := repo.Search(context.Background(), filter)

	require.NoError(t, err)
	assert.Len(t, got, 10)
	assert.Equal(t, 25, total)
	assert.Equal(t, int64(11), got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySearch_PrefixFamilyAndNoWindow(t *testing.T) {
	repo, mock := newMockRepo(t)
	owner := true

	mock.ExpectQuery(`WHERE \(o.name ILIKE \$1 OR m.full_name ILIKE \$2\) AND ms.is_owner = \$3\s+ORDER BY ms.id$`).
		WithArgs(`ac\%%`, "jo%", true).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, membershipColumns...), "total_count")))

	got, total, err := repo.Search(context.Background(), SearchFilter{
		OrganizationName: "ac%",
		MemberName:       "jo",
		IsOwner:          &owner,
	})

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryTransferOwnership(t *testing.T) {
	t.Run("all rows updated", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE memberships\s+SET is_owner`).
			WithArgs(true, int64(10), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		affected, err := repo.TransferOwnership(context.Background(), 10, []int64{1, 2, 2}, true)

		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("partial match rolls back", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE memberships\s+SET is_owner`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		_, err := repo.TransferOwnership(context.Background(), 10, []int64{1, 2}, true)

		assert.ErrorIs(t, err, ErrOwnershipUpdateFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing matched", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE memberships\s+SET is_owner`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.TransferOwnership(context.Background(), 10, []int64{1}, false)

		assert.ErrorIs(t, err, ErrOwnershipUpdateFailed)
	})
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []int64{3, 1, 2}, distinct([]int64{3, 1, 3, 2, 1}))
	assert.Empty(t, distinct(nil))
}

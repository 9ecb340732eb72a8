package member

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberColumns = []string{"id", "user_id", "full_name", "email", "phone", "district_id", "ward_id", "created_at"}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(conn), mock
}

func TestRepositoryCreateMember(t *testing.T) {
	t.Run("inserted", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectQuery(`INSERT INTO members`).
			WithArgs("kc-1", "Jane Doe", "jane@example.com", "", nil, nil).
			WillReturnRows(sqlmock.NewRows(memberColumns).AddRow(int64(4), "kc-1", "Jane Doe", "jane@example.com", "", nil, nil, time.Now()))

		m, err := repo.CreateMember(context.Background(), CreateMemberRequest{UserID: "kc-1", FullName: "Jane Doe", Email: "jane@example.com"})

		require.NoError(t, err)
		assert.Equal(t, int64(4), m.ID)
		require.NotNil(t, m.UserID)
		assert.Equal(t, "kc-1", *m.UserID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate user id", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(`INSERT INTO members`).WillReturnError(&pq.Error{Code: "23505", Constraint: "members_user_id_key"})

		_, err := repo.CreateMember(context.Background(), CreateMemberRequest{UserID: "kc-1", FullName: "Jane Doe"})

		assert.ErrorIs(t, err, ErrUserAlreadyMember)
	})
}

func TestRepositoryGetMember_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`FROM members WHERE id = \$1`).WithArgs(int64(8)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetMember(context.Background(), 8)

	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestRepositorySearchMembers_OrFamilyForPrefixes(t *testing.T) {
	repo, mock := newMockRepo(t)
	district := int64(3)

	cols := append(append([]string{}, memberColumns...), "total_count")
	mock.ExpectQuery(`WHERE \(full_name ILIKE \$1 OR email ILIKE \$2\) AND district_id = \$3 ORDER BY full_name, id LIMIT \$4 OFFSET \$5`).
		WithArgs("ja%", "ja%", int64(3), 10, 0).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), nil, "Jane", "", "", int64(3), nil, time.Now(), 1))

	members, total, err := repo.SearchMembers(context.Background(), SearchFilter{
		FullName:   "ja",
		Email:      "ja",
		DistrictID: &district,
		Params:     pagination.New(1, 10),
	})

	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Nil(t, members[0].UserID)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySearchMembers_EscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := append(append([]string{}, memberColumns...), "total_count")
	mock.ExpectQuery(`full_name ILIKE \$1`).WithArgs(`50\%%`).WillReturnRows(sqlmock.NewRows(cols))

	members, total, err := repo.SearchMembers(context.Background(), SearchFilter{FullName: "50%"})

	require.NoError(t, err)
	assert.Empty(t, members)
	assert.Zero(t, total)
}

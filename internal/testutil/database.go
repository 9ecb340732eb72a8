package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/WailSalutem-Health-Care/membership-service/internal/db"
	_ "github.com/lib/pq"
)

const defaultTestDSN = "host=localhost port=5432 user=postgres password=postgres dbname=membership_test sslmode=disable"

// SetupTestDB connects to the test database named by TEST_DATABASE_URL
// (falling back to a local default) and applies the embedded migrations.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		t.Skipf("Skipping: test database unavailable: %v", err)
	}

	if err := db.RunMigrations(conn, "up"); err != nil {
		conn.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	CleanupTestDB(t, conn)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// CleanupTestDB empties every service table.
func CleanupTestDB(t *testing.T, conn *sql.DB) {
	t.Helper()

	_, err := conn.Exec(`TRUNCATE TABLE notification_documents, notification_targets, notifications,
		memberships, members, organizations RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to clean up test tables: %v", err)
	}
}

// CreateTestOrg inserts an organization and returns its id.
func CreateTestOrg(t *testing.T, conn *sql.DB, name string, districtID int64) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRowContext(context.Background(),
		`INSERT INTO organizations (name, district_id, created_by) VALUES ($1, $2, 'testutil') RETURNING id`,
		name, districtID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test organization: %v", err)
	}
	return id
}

// CreateTestMember inserts a member and returns its id. userID may be empty.
func CreateTestMember(t *testing.T, conn *sql.DB, fullName, userID string) int64 {
	t.Helper()

	var uid sql.NullString
	if userID != "" {
		uid = sql.NullString{String: userID, Valid: true}
	}

	var id int64
	err := conn.QueryRowContext(context.Background(),
		`INSERT INTO members (full_name, user_id) VALUES ($1, $2) RETURNING id`,
		fullName, uid,
	).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test member: %v", err)
	}
	return id
}

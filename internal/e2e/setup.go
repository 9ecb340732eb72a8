//go:build integration

package e2e

import (
	"crypto/rsa"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	httpserver "github.com/WailSalutem-Health-Care/membership-service/internal/http"
	"github.com/WailSalutem-Health-Care/membership-service/internal/testutil"
)

// TestServer is a complete stack: real PostgreSQL, the real router, an
// in-memory publisher and a local token signer.
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	Verifier      *auth.Verifier
	PrivateKey    *rsa.PrivateKey
}

// SetupE2ETest builds the stack. Tests are skipped when no database is reachable.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	mockPublisher := testutil.NewMockPublisher()

	perms, err := auth.LoadPermissions("../../permissions.yml")
	if err != nil {
		t.Fatalf("Failed to load permissions: %v", err)
	}

	verifier, privateKey := testutil.CreateTestVerifier(t)

	router := httpserver.SetupRouter(httpserver.Deps{
		DB:          conn,
		Verifier:    verifier,
		Permissions: perms,
		Publisher:   mockPublisher,
	})

	return &TestServer{
		Server:        httptest.NewServer(router),
		DB:            conn,
		MockPublisher: mockPublisher,
		Verifier:      verifier,
		PrivateKey:    privateKey,
	}
}

// Cleanup stops the server and empties the tables.
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()

	ts.Server.Close()
	testutil.CleanupTestDB(t, ts.DB)
}

func (ts *TestServer) SuperAdmin(t *testing.T) *testutil.HTTPTestClient {
	t.Helper()
	return ts.NewClient(testutil.GenerateSuperAdminToken(t, ts.PrivateKey))
}

func (ts *TestServer) OrgAdmin(t *testing.T, userID string, orgID int64) *testutil.HTTPTestClient {
	t.Helper()
	return ts.NewClient(testutil.GenerateOrgAdminToken(t, ts.PrivateKey, userID, fmt.Sprint(orgID)))
}

func (ts *TestServer) Member(t *testing.T, userID string, orgID int64) *testutil.HTTPTestClient {
	t.Helper()
	return ts.NewClient(testutil.GenerateMemberToken(t, ts.PrivateKey, userID, fmt.Sprint(orgID)))
}

// NewClient creates an HTTP test client for this server with the given token
func (ts *TestServer) NewClient(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}

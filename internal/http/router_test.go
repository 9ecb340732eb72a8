package http

import (
	"context"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/membership-service/internal/testutil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*mux.Router, *rsa.PrivateKey) {
	t.Helper()
	r, privateKey, _ := newTestRouterWithMock(t)
	return r, privateKey
}

func newTestRouterWithMock(t *testing.T) (*mux.Router, *rsa.PrivateKey, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	verifier, privateKey := testutil.CreateTestVerifier(t)
	perms := auth.Permissions{
		"MEMBER": {"notification:view", "membership:view"},
	}

	r := SetupRouter(Deps{
		DB:          conn,
		Verifier:    verifier,
		Permissions: perms,
		Publisher:   messaging.NoopPublisher{},
	})
	return r, privateKey, mock
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/memberships"},
		{http.MethodGet, "/memberships/1"},
		{http.MethodPut, "/organizations/1/owners"},
		{http.MethodGet, "/organizations"},
		{http.MethodGet, "/members/3"},
		{http.MethodGet, "/notifications?type=I"},
		{http.MethodGet, "/notifications/counts"},
		{http.MethodPut, "/notifications/1/status"},
	}

	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestMissingPermissionIsForbidden(t *testing.T) {
	r, privateKey := newTestRouter(t)

	token := testutil.GenerateMemberToken(t, privateKey, "user-1", "5")
	req := httptest.NewRequest(http.MethodPost, "/memberships", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

var (
	statusColumns   = []string{"id", "creator_organization_id", "status", "approver_user_id"}
	documentColumns = []string{"id", "notification_id", "file_name", "file_url", "created_at"}
)

func expectNotification(mock sqlmock.Sqlmock, status string, approver any) {
	mock.ExpectQuery(`FROM notifications n`).WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(statusColumns).AddRow(1, 5, status, approver))
	mock.ExpectQuery(`FROM notification_documents`).WillReturnRows(sqlmock.NewRows(documentColumns))
}

func statusRequest(t *testing.T, privateKey *rsa.PrivateKey, userID string) *http.Request {
	t.Helper()
	token := testutil.GenerateMemberToken(t, privateKey, userID, "5")
	req := httptest.NewRequest(http.MethodPut, "/notifications/1/status", strings.NewReader(`{"status":"Approved"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestOwnerWithMemberRoleCanModerate(t *testing.T) {
	r, privateKey, mock := newTestRouterWithMock(t)

	expectNotification(mock, "PendingApproval", nil)
	mock.ExpectQuery(`ms\.is_owner`).WithArgs(int64(5), "owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`UPDATE notifications`).WillReturnResult(sqlmock.NewResult(0, 1))
	expectNotification(mock, "Approved", "owner-1")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, statusRequest(t, privateKey, "owner-1"))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"status":"Approved"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNonOwnerMemberCannotModerate(t *testing.T) {
	r, privateKey, mock := newTestRouterWithMock(t)

	expectNotification(mock, "PendingApproval", nil)
	mock.ExpectQuery(`ms\.is_owner`).WithArgs(int64(5), "user-2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, statusRequest(t, privateKey, "user-2"))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "status must not change without a moderator")
}

func TestCountsRouteWinsOverID(t *testing.T) {
	r, _ := newTestRouter(t)

	var match mux.RouteMatch
	req := httptest.NewRequest(http.MethodGet, "/notifications/counts", nil)
	require.True(t, r.Match(req, &match))

	tpl, err := match.Route.GetPathTemplate()
	require.NoError(t, err)
	assert.Equal(t, "/notifications/counts", tpl)
}

func TestUnknownMethodIsRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/memberships/1", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := CORSMiddleware("https://a.example, https://b.example")(next)

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://b.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "https://b.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://evil.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "https://a.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://any.example")
		rec := httptest.NewRecorder()
		CORSMiddleware("*")(next).ServeHTTP(rec, req)

		assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

type recordedRequest struct {
	method, route string
	status        int
}

type fakeHTTPMetrics struct {
	calls []recordedRequest
}

func (f *fakeHTTPMetrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	f.calls = append(f.calls, recordedRequest{method, route, statusCode})
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	metrics := &fakeHTTPMetrics{}

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(metrics))
	r.HandleFunc("/memberships/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/memberships/42", nil))

	require.Len(t, metrics.calls, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/memberships/{id}", http.StatusNotFound}, metrics.calls[0])
}

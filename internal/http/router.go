package http

import (
	"database/sql"
	"net/http"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/member"
	"github.com/WailSalutem-Health-Care/membership-service/internal/membership"
	"github.com/WailSalutem-Health-Care/membership-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/membership-service/internal/notification"
	"github.com/WailSalutem-Health-Care/membership-service/internal/organization"
	"github.com/WailSalutem-Health-Care/membership-service/internal/response"
	"github.com/WailSalutem-Health-Care/membership-service/internal/status"
	"github.com/WailSalutem-Health-Care/membership-service/internal/telemetry"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

// Deps carries what the router wires into the handlers.
type Deps struct {
	DB          *sql.DB
	Verifier    *auth.Verifier
	Permissions auth.Permissions
	Publisher   messaging.PublisherInterface
	Metrics     *telemetry.Metrics
	ServiceName string
}

// SetupRouter initializes all routes for the application
func SetupRouter(d Deps) *mux.Router {
	// Initialize organization components
	orgHandler := organization.NewHandler(organization.NewService(organization.NewRepository(d.DB)))

	// Initialize member components
	memberHandler := member.NewHandler(member.NewService(member.NewRepository(d.DB)))

	// Initialize membership components
	membershipService := membership.NewService(membership.NewRepository(d.DB), d.Publisher, d.Metrics)
	membershipHandler := membership.NewHandler(membershipService)

	// Initialize notification components
	notificationService := notification.NewService(notification.NewRepository(d.DB), d.Publisher, d.Metrics, d.Permissions)
	notificationHandler := notification.NewHandler(notificationService)

	statusHandler := status.NewHandler(status.NewService(status.NewRepository(d.DB), notificationService))

	r := mux.NewRouter()
	if d.ServiceName != "" {
		r.Use(otelmux.Middleware(d.ServiceName))
	}
	if d.Metrics != nil {
		r.Use(MetricsMiddleware(d.Metrics))
	}

	protect := func(permission string, h http.HandlerFunc) http.Handler {
		return auth.MiddlewareWithMetrics(d.Verifier, d.Metrics)(
			auth.RequirePermissionWithMetrics(permission, d.Permissions, d.Metrics)(h),
		)
	}

	// Public health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "membership-service"})
	}).Methods(http.MethodGet)

	// Organization directory
	r.Handle("/organizations", protect("organization:create", orgHandler.CreateOrganization)).Methods(http.MethodPost)
	r.Handle("/organizations", protect("organization:view", orgHandler.SearchOrganizations)).Methods(http.MethodGet)
	r.Handle("/organizations/{id}", protect("organization:view", orgHandler.GetOrganization)).Methods(http.MethodGet)
	r.Handle("/organizations/{id}/owners", protect("membership:transfer", membershipHandler.TransferOwnership)).Methods(http.MethodPut)

	// Member directory
	r.Handle("/members", protect("member:create", memberHandler.CreateMember)).Methods(http.MethodPost)
	r.Handle("/members", protect("member:view", memberHandler.SearchMembers)).Methods(http.MethodGet)
	r.Handle("/members/{id}", protect("member:view", memberHandler.GetMember)).Methods(http.MethodGet)

	// Membership registry
	r.Handle("/memberships", protect("membership:create", membershipHandler.CreateMembership)).Methods(http.MethodPost)
	r.Handle("/memberships", protect("membership:view", membershipHandler.SearchMemberships)).Methods(http.MethodGet)
	r.Handle("/memberships/{id}", protect("membership:view", membershipHandler.GetMembership)).Methods(http.MethodGet)
	r.Handle("/memberships/{id}", protect("membership:update", membershipHandler.UpdateMembership)).Methods(http.MethodPut)
	r.Handle("/memberships/{id}", protect("membership:delete", membershipHandler.DeleteMembership)).Methods(http.MethodDelete)
	// An empty id still reaches the handler so it can answer 404.
	r.Handle("/memberships/", protect("membership:delete", membershipHandler.DeleteMembership)).Methods(http.MethodDelete)

	// Notification workflow; counts is registered ahead of {id}
	r.Handle("/notifications/counts", protect("notification:view", statusHandler.GetCounts)).Methods(http.MethodGet)
	r.Handle("/notifications", protect("notification:create", notificationHandler.CreateNotification)).Methods(http.MethodPost)
	r.Handle("/notifications", protect("notification:view", notificationHandler.SearchNotifications)).Methods(http.MethodGet)
	r.Handle("/notifications/{id}", protect("notification:view", notificationHandler.GetNotification)).Methods(http.MethodGet)
	r.Handle("/notifications/{id}", protect("notification:update", notificationHandler.UpdateNotification)).Methods(http.MethodPut)
	r.Handle("/notifications/{id}", protect("notification:delete", notificationHandler.DeleteNotification)).Methods(http.MethodDelete)
	r.Handle("/notifications/{id}/submit", protect("notification:update", notificationHandler.SubmitNotification)).Methods(http.MethodPost)
	r.Handle("/notifications/{id}/status", protect("notification:view", notificationHandler.UpdateStatus)).Methods(http.MethodPut)

	return r
}

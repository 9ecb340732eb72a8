package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/response"
	"github.com/sirupsen/logrus"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey struct{}

var tracer = otel.Tracer("github.com/WailSalutem-Health-Care/membership-service/auth")

// MetricsRecorder counts rejected requests by reason.
type MetricsRecorder interface {
	RecordAuthFailure(ctx context.Context, reason string)
}

// PermissionMetricsRecorder times permission checks.
type PermissionMetricsRecorder interface {
	RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool)
}

// Middleware validates the bearer token and stores the Principal in the
// request context.
func Middleware(ver *Verifier) func(http.Handler) http.Handler {
	return MiddlewareWithMetrics(ver, nil)
}

// MiddlewareWithMetrics is Middleware that also reports failures to metrics.
func MiddlewareWithMetrics(ver *Verifier, metrics MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), "auth.Middleware", trace.WithSpanKind(trace.SpanKindInternal))
			defer span.End()

			reject := func(reason, msg string) {
				span.SetStatus(codes.Error, msg)
				span.SetAttributes(attribute.String("error.type", reason))
				if metrics != nil {
					metrics.RecordAuthFailure(ctx, reason)
				}
				response.Error(w, http.StatusUnauthorized, msg)
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				reject("missing_authorization", "missing authorization")
				return
			}
			token, ok := bearerToken(header)
			if !ok {
				reject("invalid_header_format", "invalid authorization header")
				return
			}

			pr, err := ver.ParseAndVerifyToken(token)
			if err != nil {
				logrus.WithError(err).Warn("Token validation failed")
				reject("invalid_token", "invalid token")
				return
			}

			span.SetAttributes(
				attribute.String("user.id", pr.UserID),
				attribute.StringSlice("user.roles", pr.Roles),
				attribute.String("organization.id", pr.OrgID),
			)
			span.SetStatus(codes.Ok, "authenticated")

			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, pr)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequirePermission rejects callers whose roles do not grant per.
func RequirePermission(per string, perms Permissions) func(http.Handler) http.Handler {
	return RequirePermissionWithMetrics(per, perms, nil)
}

// RequirePermissionWithMetrics is RequirePermission that also times the check.
func RequirePermissionWithMetrics(per string, perms Permissions, metrics PermissionMetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx, span := tracer.Start(r.Context(), "auth.RequirePermission",
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attribute.String("permission.required", per)),
			)
			defer span.End()

			pr, ok := FromContext(ctx)
			allowed := ok && HasPermission(pr, per, perms)
			if metrics != nil {
				metrics.RecordPermissionCheck(ctx, per, float64(time.Since(start).Microseconds())/1000, allowed)
			}
			span.SetAttributes(attribute.Bool("permission.allowed", allowed))

			switch {
			case !ok:
				span.SetStatus(codes.Error, "unauthenticated")
				response.Error(w, http.StatusUnauthorized, "unauthenticated")
			case !allowed:
				logrus.WithFields(logrus.Fields{
					"user_id":    pr.UserID,
					"roles":      pr.Roles,
					"permission": per,
				}).Warn("Permission denied")
				span.SetStatus(codes.Error, "forbidden")
				response.Error(w, http.StatusForbidden, "forbidden")
			default:
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// ContextWithPrincipal returns ctx carrying principal.
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, principal)
}

// FromContext extracts Principal from context.
func FromContext(ctx context.Context) (*Principal, bool) {
	pr, ok := ctx.Value(ctxKey{}).(*Principal)
	return pr, ok && pr != nil
}

// HasPermission reports whether any of the principal's roles grants permission.
func HasPermission(pr *Principal, permission string, perms Permissions) bool {
	for _, role := range pr.Roles {
		if perms.grants(role, permission) {
			return true
		}
	}
	return false
}

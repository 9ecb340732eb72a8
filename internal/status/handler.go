package status

import (
	"context"
	"net/http"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/request"
	"github.com/WailSalutem-Health-Care/membership-service/internal/response"
)

// CountsService is the read side used by Handler.
type CountsService interface {
	GetCounts(ctx context.Context, requested *int64, principal *auth.Principal) (*Counts, error)
}

var _ CountsService = (*Service)(nil)

type Handler struct {
	service CountsService
}

func NewHandler(service CountsService) *Handler {
	return &Handler{service: service}
}

// GetCounts serves GET /notifications/counts[?organizationId=].
func (h *Handler) GetCounts(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	orgID, err := request.Int64(r.URL.Query(), "organizationId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	counts, err := h.service.GetCounts(r.Context(), orgID, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, counts)
}

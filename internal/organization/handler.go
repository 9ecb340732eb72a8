package organization

import (
	"net/http"

	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/membership-service/internal/request"
	"github.com/WailSalutem-Health-Care/membership-service/internal/response"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateOrganizationRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	org, err := h.service.CreateOrganization(r.Context(), req, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, org)
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	org, err := h.service.GetOrganization(r.Context(), id, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, org)
}

// SearchOrganizations accepts name (prefix), typeId, districtId, wardId, page and pageSize.
func (h *Handler) SearchOrganizations(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	q := r.URL.Query()
	filter := SearchFilter{Name: q.Get("name")}

	var err error
	if filter.TypeID, err = request.Int64(q, "typeId"); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.DistrictID, err = request.Int64(q, "districtId"); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.WardID, err = request.Int64(q, "wardId"); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.Params, err = pagination.ParseParams(r); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.service.SearchOrganizations(r.Context(), filter, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

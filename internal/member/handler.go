package member

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

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateMemberRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	m, err := h.service.CreateMember(r.Context(), req, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, m)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
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

	m, err := h.service.GetMember(r.Context(), id, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m)
}

func (h *Handler) SearchMembers(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	q := r.URL.Query()
	filter := SearchFilter{
		FullName: q.Get("fullName"),
		Email:    q.Get("email"),
	}

	var err error
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

	result, err := h.service.SearchMembers(r.Context(), filter, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

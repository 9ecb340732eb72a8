package membership

import (
	"net/http"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/membership-service/internal/request"
	"github.com/WailSalutem-Health-Care/membership-service/internal/response"
)

// Unknown organizations or members on a write are a bad request, not a missing resource.
var writeStatus = response.StatusMap{apperr.KindNotFound: http.StatusBadRequest}

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateMembership(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateMembershipRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	id, err := h.service.CreateMembership(r.Context(), req, principal)
	if err != nil {
		response.FromError(w, err, writeStatus)
		return
	}

	response.JSON(w, http.StatusCreated, id)
}

func (h *Handler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateMembershipRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	updatedID, err := h.service.UpdateMembership(r.Context(), id, req, principal)
	if err != nil {
		response.FromError(w, err, writeStatus)
		return
	}

	response.JSON(w, http.StatusOK, updatedID)
}

func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
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

	m, err := h.service.GetMembership(r.Context(), id, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, m)
}

// DeleteMembership answers 200 with false when nothing matched the id.
func (h *Handler) DeleteMembership(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err, response.StatusMap{apperr.KindValidation: http.StatusNotFound})
		return
	}

	deleted, err := h.service.DeleteMembership(r.Context(), id, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, deleted)
}

// SearchMemberships reads the filter from the query string:
// organizationName, memberName (prefix); organizationId, memberId, typeId,
// districtId, wardId, isOwner, isOrganizationInitiated (exact); page, pageSize.
func (h *Handler) SearchMemberships(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	filter, err := parseSearchFilter(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.service.SearchMemberships(r.Context(), filter, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *Handler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	orgID, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var req TransferOwnershipRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.TransferOwnership(r.Context(), orgID, req, principal); err != nil {
		response.FromError(w, err, response.StatusMap{apperr.KindUpdateFailed: http.StatusNotFound})
		return
	}

	response.JSON(w, http.StatusOK, "Ownership updated successfully")
}

func parseSearchFilter(r *http.Request) (SearchFilter, error) {
	q := r.URL.Query()
	filter := SearchFilter{
		OrganizationName: q.Get("organizationName"),
		MemberName:       q.Get("memberName"),
	}

	ints := []struct {
		key string
		dst **int64
	}{
		{"organizationId", &filter.OrganizationID},
		{"memberId", &filter.MemberID},
		{"typeId", &filter.TypeID},
		{"districtId", &filter.DistrictID},
		{"wardId", &filter.WardID},
	}
	for _, f := range ints {
		v, err := request.Int64(q, f.key)
		if err != nil {
			return SearchFilter{}, err
		}
		*f.dst = v
	}

	var err error
	if filter.IsOwner, err = request.Bool(q, "isOwner"); err != nil {
		return SearchFilter{}, err
	}
	if filter.IsOrganizationInitiated, err = request.Bool(q, "isOrganizationInitiated"); err != nil {
		return SearchFilter{}, err
	}

	params, err := pagination.ParseParams(r)
	if err != nil {
		return SearchFilter{}, err
	}
	filter.Params = params
	return filter, nil
}

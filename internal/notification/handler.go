package notification

import (
	"errors"
	"net/http"

	"github.com/WailSalutem-Health-Care/membership-service/internal/apperr"
	"github.com/WailSalutem-Health-Care/membership-service/internal/auth"
	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
	"github.com/WailSalutem-Health-Care/membership-service/internal/request"
	"github.com/WailSalutem-Health-Care/membership-service/internal/response"
)

// An invalid transition on the status route is reported like a missing record.
var statusUpdateStatus = response.StatusMap{
	apperr.KindConflict:     http.StatusNotFound,
	apperr.KindUpdateFailed: http.StatusNotFound,
}

// Unknown creator or target organizations on a write are a bad request.
var writeStatus = response.StatusMap{apperr.KindNotFound: http.StatusBadRequest}

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req CreateNotificationRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	id, err := h.service.CreateNotification(r.Context(), req, principal)
	if err != nil {
		response.FromError(w, err, writeStatus)
		return
	}

	response.JSON(w, http.StatusCreated, id)
}

func (h *Handler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
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

	var req UpdateNotificationRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	updatedID, err := h.service.UpdateNotification(r.Context(), id, req, principal)
	if err != nil {
		if errors.Is(err, ErrTargetOrganizationNotFound) {
			response.FromError(w, err, writeStatus)
			return
		}
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updatedID)
}

func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.service.DeleteNotification(r.Context(), id, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, deleted)
}

func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
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

	n, err := h.service.GetNotification(r.Context(), id, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, n)
}

func (h *Handler) SubmitNotification(w http.ResponseWriter, r *http.Request) {
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

	n, err := h.service.SubmitNotification(r.Context(), id, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, n)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	id, err := request.PathID(r, "id")
	if err != nil {
		response.FromError(w, err, statusUpdateStatus)
		return
	}

	var req UpdateStatusRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.FromError(w, err)
		return
	}

	n, err := h.service.UpdateStatus(r.Context(), id, req, principal)
	if err != nil {
		response.FromError(w, err, statusUpdateStatus)
		return
	}

	response.JSON(w, http.StatusOK, n)
}

// SearchNotifications serves GET /notifications?type=I|S|A with optional
// subject, venue, status, venueDistrictId, venueWardId, organizationId,
// page and pageSize.
func (h *Handler) SearchNotifications(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	q := r.URL.Query()
	filter := SearchFilter{
		View:    View(q.Get("type")),
		Subject: q.Get("subject"),
		Venue:   q.Get("venue"),
		Status:  Status(q.Get("status")),
	}
	switch filter.Status {
	case "", StatusDraft, StatusPendingApproval, StatusApproved, StatusRejected:
	default:
		response.Error(w, http.StatusBadRequest, "status must be one of Draft, PendingApproval, Approved, Rejected")
		return
	}

	var err error
	if filter.OrganizationID, err = request.Int64(q, "organizationId"); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.VenueDistrictID, err = request.Int64(q, "venueDistrictId"); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.VenueWardID, err = request.Int64(q, "venueWardId"); err != nil {
		response.FromError(w, err)
		return
	}
	if filter.Params, err = pagination.ParseParams(r); err != nil {
		response.FromError(w, err)
		return
	}

	result, err := h.service.SearchNotifications(r.Context(), filter, principal)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

package notification

import "github.com/WailSalutem-Health-Care/membership-service/internal/apperr"

var (
	ErrNotificationNotFound       = apperr.NotFound("notification not found")
	ErrOrganizationNotFound       = apperr.NotFound("organization not found")
	ErrTargetOrganizationNotFound = apperr.NotFound("target organization not found")
	ErrNoTargets                  = apperr.Validation("targetOrganizationIds is required unless notifyAll is set")
	ErrCreatorRequired            = apperr.Validation("creatorOrganizationId is required")
	ErrOrganizationRequired       = apperr.Validation("organizationId is required for this view")
	ErrInvalidView                = apperr.Validation("type must be one of I, S, A")
	ErrInvalidTransition          = apperr.Conflict("invalid status transition")
	ErrNotEditable                = apperr.Conflict("approved notifications cannot be changed")
	ErrUpdateFailed               = apperr.UpdateFailed("notification was not updated")
	ErrNoOrganization             = apperr.Forbidden("no organization in token")
	ErrForbidden                  = apperr.Forbidden("forbidden - notification belongs to another organization")
	ErrNotModerator               = apperr.Forbidden("forbidden - caller cannot moderate notifications")
)

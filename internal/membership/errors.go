package membership

import "github.com/WailSalutem-Health-Care/membership-service/internal/apperr"

var (
	ErrInvalidID               = apperr.Validation("membership id must be a positive integer")
	ErrOrganizationNotFound    = apperr.NotFound("organization not found")
	ErrMemberNotFound          = apperr.NotFound("member not found")
	ErrMembershipNotFound      = apperr.NotFound("membership not found")
	ErrMembershipAlreadyExists = apperr.Conflict("membership already exists")
	ErrUpdateFailed            = apperr.UpdateFailed("membership update failed")
	ErrDeleteFailed            = apperr.DeleteFailed("membership delete failed")
	ErrOwnershipUpdateFailed   = apperr.UpdateFailed("ownership update failed")
	ErrNoOrganization          = apperr.Forbidden("caller is not bound to an organization")
	ErrForbidden               = apperr.Forbidden("forbidden - membership belongs to another organization")
)

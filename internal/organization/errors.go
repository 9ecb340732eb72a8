package organization

import "github.com/WailSalutem-Health-Care/membership-service/internal/apperr"

var (
	ErrOrganizationNotFound = apperr.NotFound("organization not found")
	ErrForbidden            = apperr.Forbidden("forbidden - organization belongs to another tenant")
)

package member

import "github.com/WailSalutem-Health-Care/membership-service/internal/apperr"

var (
	ErrMemberNotFound    = apperr.NotFound("member not found")
	ErrUserAlreadyMember = apperr.Conflict("a member is already registered for this user")
)

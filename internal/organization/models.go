package organization

import (
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
)

// CreateOrganizationRequest represents the request to create a new organization
type CreateOrganizationRequest struct {
	Name       string `json:"name" validate:"notblank,max=255"`
	TypeID     *int64 `json:"typeId,omitempty" validate:"omitempty,gt=0"`
	DistrictID *int64 `json:"districtId,omitempty" validate:"omitempty,gt=0"`
	WardID     *int64 `json:"wardId,omitempty" validate:"omitempty,gt=0"`
	Address    string `json:"address,omitempty"`
}

// Organization represents the organization data returned to clients
type Organization struct {
	ID         int64     `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	TypeID     *int64    `json:"typeId,omitempty" db:"type_id"`
	DistrictID *int64    `json:"districtId,omitempty" db:"district_id"`
	WardID     *int64    `json:"wardId,omitempty" db:"ward_id"`
	Address    string    `json:"address,omitempty" db:"address"`
	CreatedBy  string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// SearchFilter matches organizations by name prefix and exact location/type ids.
type SearchFilter struct {
	Name       string
	TypeID     *int64
	DistrictID *int64
	WardID     *int64

	pagination.Params
}

// SearchResult is one page of organizations.
type SearchResult = pagination.Result[Organization]

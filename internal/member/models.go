package member

import (
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/pagination"
)

// Member is an individual who may belong to organizations.
type Member struct {
	ID         int64     `json:"id" db:"id"`
	UserID     *string   `json:"userId,omitempty" db:"user_id"`
	FullName   string    `json:"fullName" db:"full_name"`
	Email      string    `json:"email,omitempty" db:"email"`
	Phone      string    `json:"phone,omitempty" db:"phone"`
	DistrictID *int64    `json:"districtId,omitempty" db:"district_id"`
	WardID     *int64    `json:"wardId,omitempty" db:"ward_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// CreateMemberRequest represents the request to register a member
type CreateMemberRequest struct {
	UserID     string `json:"userId,omitempty" validate:"omitempty,max=255"`
	FullName   string `json:"fullName" validate:"notblank,max=255"`
	Email      string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone      string `json:"phone,omitempty" validate:"omitempty,max=64"`
	DistrictID *int64 `json:"districtId,omitempty" validate:"omitempty,gt=0"`
	WardID     *int64 `json:"wardId,omitempty" validate:"omitempty,gt=0"`
}

// SearchFilter matches members by name or email prefix and exact location.
type SearchFilter struct {
	FullName   string
	Email      string
	DistrictID *int64
	WardID     *int64

	pagination.Params
}

type SearchResult = pagination.Result[Member]

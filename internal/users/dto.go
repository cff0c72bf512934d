package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

// ListQuery is the dashboard user listing request.
type ListQuery struct {
	Page      pagination.Params
	Search    string
	Role      *enums.UserRole
	IsActive  *bool
	SortBy    string
	SortOrder string
}

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	Role        enums.UserRole `json:"role"`
	AvatarURL   *string        `json:"avatarUrl"`
	IsActive    bool           `json:"isActive"`
	LastLoginAt *time.Time     `json:"lastLoginAt"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// CreateUserInput is the create payload.
type CreateUserInput struct {
	Email     string         `json:"email" validate:"required,email,max=254"`
	Name      string         `json:"name" validate:"required,max=120"`
	Password  string         `json:"password" validate:"required,min=8,max=128"`
	Role      enums.UserRole `json:"role"`
	AvatarURL *string        `json:"avatarUrl" validate:"omitempty,url"`
	IsActive  *bool          `json:"isActive"`
}

// UpdateUserInput carries optional changes; a password re-hashes.
type UpdateUserInput struct {
	Email     *string         `json:"email" validate:"omitempty,email,max=254"`
	Name      *string         `json:"name" validate:"omitempty,min=1,max=120"`
	Password  *string         `json:"password" validate:"omitempty,min=8,max=128"`
	Role      *enums.UserRole `json:"role"`
	AvatarURL *string         `json:"avatarUrl" validate:"omitempty,url"`
	IsActive  *bool           `json:"isActive"`
}

// FromModel maps a user row.
func FromModel(u models.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		AvatarURL:   u.AvatarURL,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

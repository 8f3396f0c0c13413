package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/styleco/storefront/internal/domain/identity"
	"github.com/styleco/storefront/internal/infrastructure/auth"
)

// RegisterRequest creates a buyer account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=200"`
}

// LoginRequest authenticates with email and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token auth.Token   `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateProfileRequest edits a user's display fields
type UpdateProfileRequest struct {
	FullName  string `json:"full_name" binding:"max=200"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// SetAdminRequest grants or revokes admin access
type SetAdminRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// UserListQuery pages the admin user list
type UserListQuery struct {
	Search   string `form:"q" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToUserResponse converts a domain User to UserResponse
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// Principal is the authenticated caller resolved from a bearer token
type Principal struct {
	UserID  uuid.UUID
	Email   string
	IsAdmin bool
	// TokenID and TokenTTL let logout revoke exactly this token
	TokenID  string
	TokenTTL time.Duration
}

package dto

import (
	"time"

	"dispatch_backend/internal/feature/auth/domain/entity"
)

// UserRes is the public identity of a user. It never carries the password hash.
type UserRes struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserRes converts a user entity into its public representation.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

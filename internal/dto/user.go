package dto

import (
	"time"

	"github.com/yukikurage/bizops-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64          `json:"id"`
	Username    string          `json:"username"`
	DisplayName string          `json:"display_name,omitempty"`
	Email       string          `json:"email,omitempty"`
	Role        models.UserRole `json:"role"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToUserDTO converts a user to its API representation
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

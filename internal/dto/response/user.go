package response

import (
	"github.com/qwaszxg/api-yamdb/internal/data/entity"
)

type UserResponse struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	Role      string  `json:"role"`
}

// Helper converter
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Bio:       user.Bio,
		Role:      string(user.Role),
	}
}

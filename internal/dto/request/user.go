package request

type CreateUserRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=150"`
	Email     string  `json:"email" validate:"required,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=user moderator admin"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=user moderator admin"`
}

// UpdateMeRequest allows a role field on the wire but the service pins it to
// the caller's stored role, so self-escalation silently no-ops.
type UpdateMeRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
	Role      *string `json:"role,omitempty"`
}

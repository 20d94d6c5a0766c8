package request

type SignUpRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
}

type GetTokenRequest struct {
	Username         string `json:"username" validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

package response

type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

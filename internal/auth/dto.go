package auth

// RegisterRequest creates an email account. Password is optional; a random
// secret is stored when it is omitted.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=1"`
	Name     *string `json:"name,omitempty"`
}

// LoginRequest captures the user credentials sent to the login endpoint. A
// missing password is rejected by the service with the same error as a wrong
// one.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// GoogleRequest carries the id_token form field of the Google sign-in flow.
type GoogleRequest struct {
	IDToken string `validate:"required"`
}

// TokenResponse is returned by every successful auth flow.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

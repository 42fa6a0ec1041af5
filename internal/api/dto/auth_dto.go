package dto

// Data Transfer Objects for the signup and token-exchange flows

// SignupRequest: payload for user registration. Only username and email;
// the confirmation code arrives by mail.
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignupResponse echoes the accepted payload.
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for exchanging a confirmation code for a JWT
type TokenRequest struct {
	Username         string `json:"username" binding:"required"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse carries the signed access token.
type TokenResponse struct {
	Token string `json:"token"`
}

package auth

// TokenResponse is returned by POST /token.
// @Description Bearer access token
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"1800"` // seconds until expiry
}

// RegisterResponse is returned by POST /register.
type RegisterResponse struct {
	Username string `json:"username" example:"alice"`
}

package auth

// RegisterRequest represents the request body for POST /api/auth/register
type RegisterRequest struct {
	// Username is required and must be unique across the directory.
	Username string `json:"username"`
	// Password is required, stored only as a bcrypt hash.
	Password string `json:"password"`
	// Email is required and must be unique across the directory.
	Email string `json:"email"`
}

// TokenResponse is the success body shared by register, login and Google
// sign-in: a signed access token plus the resolved account.
type TokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthResult is the internal result the auth services hand to controllers.
type AuthResult struct {
	Token    string
	Username string
	Email    string
}

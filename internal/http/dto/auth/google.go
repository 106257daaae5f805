package auth

// GoogleLoginRequest represents the request body for POST /api/auth/google.
// IDToken is the raw ID token obtained by the SPA from Google Sign-In.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken"`
}

package validation

import "regexp"

// Username rules:
// - Start with a letter or digit.
// - Middle chars may include [A-Za-z0-9_.-].
// - Length 1..64 (the federated flow derives names like "maria_google_a1b2c3",
//   so underscores and digits must be allowed).
// - Case-sensitive as stored; no normalization here.
//
// Examples valid: alice, Alice, maria_google, bob-2, a
// Examples invalid: "", " lead", "tail ", "ñoño", "a b", 65+ chars.
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9_.-]{0,62}[A-Za-z0-9])?$`)

// Minimal email shape check: one '@', non-empty local part and a dot in the
// domain. Anything stricter belongs to a verification flow, not here.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidUsername reporta si el username cumple el patrón permitido.
func ValidUsername(name string) bool {
	return usernameRe.MatchString(name)
}

// ValidEmail reporta si el string tiene forma de email.
func ValidEmail(email string) bool {
	return len(email) <= 254 && emailRe.MatchString(email)
}

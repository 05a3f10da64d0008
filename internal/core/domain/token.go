package domain

import "time"

// TokenPair is the credential material persisted by the token store.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is the body returned by login, register and refresh.
type AuthResult struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// Tokens returns the pair carried by the result.
func (r *AuthResult) Tokens() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

// TokenPayload is the claim set read from the middle segment of an access
// token WITHOUT signature verification. It is advisory only: it drives expiry
// UX on the client and must never be used to authorize anything.
type TokenPayload struct {
	Subject   string
	Email     string
	Role      string
	ExpiresAt int64 // epoch seconds
	IssuedAt  int64 // epoch seconds, 0 when absent
	Claims    map[string]any
}

// Expiry returns ExpiresAt as a time.
func (p *TokenPayload) Expiry() time.Time {
	return time.Unix(p.ExpiresAt, 0)
}

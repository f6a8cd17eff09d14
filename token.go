package walletgo

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo holds the OAuth state of a wallet. The token contents are opaque
// to this package; only an unverified expiry peek is offered so callers know
// when to ask their token collaborator for a refresh.
type TokenInfo struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	TokenType    string     `json:"token_type,omitempty"`
	ExpiresAt    *Timestamp `json:"expires_at,omitempty"`
}

// Expiry returns the token expiry: the stored expires_at when present, else
// the exp claim of the access token if it happens to be a JWT. The signature
// is never verified; this is scheduling metadata, not authentication.
func (t *TokenInfo) Expiry() (time.Time, bool) {
	if t.ExpiresAt != nil {
		return time.Time(*t.ExpiresAt), true
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token is known to be expired at the given time.
// A token without discoverable expiry is never reported expired.
func (t *TokenInfo) Expired(now time.Time) bool {
	expiry, ok := t.Expiry()
	return ok && expiry.Before(now)
}

package walletgo

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return s
}

func TestTokenExpiryFromExpiresAt(t *testing.T) {
	at := Timestamp(time.Unix(1700000000, 0))
	token := &TokenInfo{AccessToken: "opaque", ExpiresAt: &at}
	expiry, ok := token.Expiry()
	require.True(t, ok)
	require.Equal(t, time.Time(at), expiry)
}

func TestTokenExpiryFromJWT(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := &TokenInfo{AccessToken: signedToken(t, jwt.MapClaims{"exp": exp.Unix()})}
	expiry, ok := token.Expiry()
	require.True(t, ok)
	require.Equal(t, exp.Unix(), expiry.Unix())
}

func TestTokenExpiryUndiscoverable(t *testing.T) {
	tests := []*TokenInfo{
		{AccessToken: "not-a-jwt"},
		{AccessToken: signedToken(t, jwt.MapClaims{"sub": "wallet"})},
		{},
	}
	for _, token := range tests {
		_, ok := token.Expiry()
		require.False(t, ok)
		require.False(t, token.Expired(time.Now()))
	}
}

func TestTokenExpired(t *testing.T) {
	past := Timestamp(time.Now().Add(-time.Hour))
	future := Timestamp(time.Now().Add(time.Hour))
	require.True(t, (&TokenInfo{ExpiresAt: &past}).Expired(time.Now()))
	require.False(t, (&TokenInfo{ExpiresAt: &future}).Expired(time.Now()))
}

package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeHasher(t *testing.T) {
	h := &CodeHasher{cost: 4}

	code, err := h.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 6)

	hash, err := h.Hash(code)
	require.NoError(t, err)
	assert.NotEqual(t, code, hash)
	assert.True(t, h.Compare(hash, code))
	assert.False(t, h.Compare(hash, "not-it"))
}

func TestTokenVerifier_RoundTrip(t *testing.T) {
	v := NewTokenVerifier("secret", "zen-auth")

	tok, err := v.Sign(FederatedClaims{
		Email: "a@b.c",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "firebase-uid",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	claims, err := v.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid", claims.Subject)
	assert.Equal(t, "a@b.c", claims.Email)
}

func TestTokenVerifier_Rejects(t *testing.T) {
	v := NewTokenVerifier("secret", "zen-auth")
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		signer *TokenVerifier
		claims FederatedClaims
	}{
		{"wrong key", NewTokenVerifier("other", "zen-auth"), FederatedClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ExpiresAt: exp}}},
		{"wrong issuer", NewTokenVerifier("secret", "someone-else"), FederatedClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ExpiresAt: exp}}},
		{"expired", v, FederatedClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "s", ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}}},
		{"no expiry", v, FederatedClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "s"}}},
		{"no subject", v, FederatedClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: exp}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, err := tt.signer.Sign(tt.claims)
			require.NoError(t, err)

			_, err = v.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := v.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenVerifier("", "").Verify("x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenVerifier_Identify(t *testing.T) {
	v := NewTokenVerifier("secret", "")
	tok, err := v.Sign(FederatedClaims{
		PhoneNumber: "+1555",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	require.NoError(t, err)

	sub, ident, err := v.Identify(tok)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", sub)
	assert.Equal(t, "+1555", ident.PhoneNumber)
	assert.Empty(t, ident.Email)
}

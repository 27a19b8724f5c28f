package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayaocrm/crm/internal/model"
)

const (
	jwtAlgoEd25519 = "EdDSA"
	jwtIssuerClaim = "test-issuer"
	jwtTimeToLive  = 3 * time.Minute
)

var testJwtUser = &model.User{
	Username: "alice",
	Role:     model.RoleUser,
	Language: "zh",
}

func TestSignAndVerify(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err, "failed to generate signing key")

	issuer := NewJwtIssuer(jwtIssuerClaim, jwt.GetSigningMethod(jwtAlgoEd25519), jwtTimeToLive, priv)
	validator := NewJwtValidator(jwt.GetSigningMethod(jwtAlgoEd25519), pub)

	now := time.Now().UTC()

	token, err := issuer.Sign(testJwtUser, now)
	require.NoError(t, err, "signing must succeed")
	assert.Equal(t, now.Add(jwtTimeToLive).Unix(), token.ExpiresAt, "incorrect time to live was set for jwt")

	t.Log("valid token must be verified and carry the actor identity")
	{
		claims, err := validator.Verify(token.Signed)
		require.NoError(t, err, "verification must succeed")
		assert.Equal(t, testJwtUser.Username, claims.Subject)
		assert.Equal(t, string(testJwtUser.Role), claims.Role)
		assert.Equal(t, testJwtUser.Language, claims.Language)

		actor := claims.Actor()
		assert.Equal(t, model.Actor{Username: "alice", Role: model.RoleUser}, actor)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err, "failed to generate signing key")

	issuer := NewJwtIssuer(jwtIssuerClaim, jwt.GetSigningMethod(jwtAlgoEd25519), jwtTimeToLive, priv)
	validator := NewJwtValidator(jwt.GetSigningMethod(jwtAlgoEd25519), pub)

	issuedAt := time.Now().UTC().Add(-time.Hour)

	token, err := issuer.Sign(testJwtUser, issuedAt)
	require.NoError(t, err, "signing must succeed")

	t.Log("token issued an hour ago must be rejected")
	{
		_, err := validator.Verify(token.Signed)
		assert.Error(t, err, "expired token passed verification")
	}
}

func TestVerifyWrongKey(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err, "failed to generate signing key")

	otherPub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err, "failed to generate verification key")

	issuer := NewJwtIssuer(jwtIssuerClaim, jwt.GetSigningMethod(jwtAlgoEd25519), jwtTimeToLive, priv)
	validator := NewJwtValidator(jwt.GetSigningMethod(jwtAlgoEd25519), otherPub)

	token, err := issuer.Sign(testJwtUser, time.Now().UTC())
	require.NoError(t, err, "signing must succeed")

	t.Log("token signed with a different key must be rejected")
	{
		_, err := validator.Verify(token.Signed)
		assert.Error(t, err, "token with wrong signature passed verification")
	}
}

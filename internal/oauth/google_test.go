package oauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horoscope-api/internal/model"
)

const testKid = "test-key-1"

func newTestVerifier(t *testing.T, clientID string, key *rsa.PrivateKey) *GoogleVerifier {
	t.Helper()

	jwks := map[string]any{
		"keys": []map[string]string{{
			"kid": testKid,
			"kty": "RSA",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	t.Cleanup(srv.Close)

	return &GoogleVerifier{
		clientID:   clientID,
		jwksURL:    srv.URL,
		httpClient: srv.Client(),
		keys:       map[string]*rsa.PublicKey{},
	}
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, mutate func(jwt.MapClaims)) string {
	t.Helper()

	claims := jwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            "test-client-id",
		"sub":            "google-subject-1",
		"email":          "luna@example.com",
		"email_verified": true,
		"name":           "Luna",
		"picture":        "https://example.com/luna.png",
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(time.Hour).Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKid
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestGoogleVerifier_Verify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	t.Run("valid token yields the identity", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		identity, err := v.Verify(context.Background(), signIDToken(t, key, nil))
		require.NoError(t, err)

		assert.Equal(t, "google-subject-1", identity.Subject)
		assert.Equal(t, "luna@example.com", identity.Email)
		assert.True(t, identity.EmailVerified)
		assert.Equal(t, "Luna", identity.Name)
	})

	t.Run("bare issuer form is accepted", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		token := signIDToken(t, key, func(c jwt.MapClaims) { c["iss"] = "accounts.google.com" })
		_, err := v.Verify(context.Background(), token)
		assert.NoError(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		token := signIDToken(t, key, func(c jwt.MapClaims) { c["aud"] = "someone-else" })
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, model.ErrGoogleTokenInvalid)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		token := signIDToken(t, key, func(c jwt.MapClaims) { c["iss"] = "https://evil.example.com" })
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, model.ErrGoogleTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		token := signIDToken(t, key, func(c jwt.MapClaims) {
			c["exp"] = time.Now().Add(-time.Minute).Unix()
		})
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, model.ErrGoogleTokenInvalid)
	})

	t.Run("missing subject", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		token := signIDToken(t, key, func(c jwt.MapClaims) { delete(c, "sub") })
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, model.ErrGoogleTokenInvalid)
	})

	t.Run("hmac token is rejected", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		hmacToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": "https://accounts.google.com",
			"sub": "google-subject-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := hmacToken.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), signed)
		assert.ErrorIs(t, err, model.ErrGoogleTokenInvalid)
	})

	t.Run("token signed by an unknown key", func(t *testing.T) {
		v := newTestVerifier(t, "test-client-id", key)

		otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
		require.NoError(t, err)

		_, err = v.Verify(context.Background(), signIDToken(t, otherKey, nil))
		assert.ErrorIs(t, err, model.ErrGoogleTokenInvalid)
	})

	t.Run("empty client id skips the audience check", func(t *testing.T) {
		v := newTestVerifier(t, "", key)

		token := signIDToken(t, key, func(c jwt.MapClaims) { c["aud"] = "anything" })
		_, err := v.Verify(context.Background(), token)
		assert.NoError(t, err)
	})
}

func TestParseRSAKey(t *testing.T) {
	t.Run("rejects bad base64", func(t *testing.T) {
		_, err := parseRSAKey("!!!", "AQAB")
		assert.Error(t, err)
	})

	t.Run("rejects zero exponent", func(t *testing.T) {
		_, err := parseRSAKey("AQAB", "")
		assert.Error(t, err)
	})
}

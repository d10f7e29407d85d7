package google

import (
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	// Signature is irrelevant: the claims are parsed unverified.
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return raw
}

func TestAccountFromIDToken_Email(t *testing.T) {
	raw := signedIDToken(t, jwt.MapClaims{"email": "band@school.edu", "sub": "1234"})
	account, err := accountFromIDToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "band@school.edu", account)
}

func TestAccountFromIDToken_FallsBackToSubject(t *testing.T) {
	raw := signedIDToken(t, jwt.MapClaims{"sub": "1234"})
	account, err := accountFromIDToken(raw)
	require.NoError(t, err)
	assert.Equal(t, "1234", account)
}

func TestAccountFromIDToken_Garbage(t *testing.T) {
	_, err := accountFromIDToken("not-a-jwt")
	assert.Error(t, err)
}

func TestCallbackHandler_DeliversCode(t *testing.T) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	h := callbackHandler("state123", codeCh, errCh)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/callback?state=state123&code=auth-code-42", nil)
	h(w, r)

	assert.Equal(t, 200, w.Code)
	select {
	case code := <-codeCh:
		assert.Equal(t, "auth-code-42", code)
	default:
		t.Fatal("expected a code on the channel")
	}
}

func TestCallbackHandler_StateMismatch(t *testing.T) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	h := callbackHandler("state123", codeCh, errCh)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/callback?state=evil&code=auth-code-42", nil)
	h(w, r)

	assert.Equal(t, 400, w.Code)
	select {
	case err := <-errCh:
		assert.ErrorContains(t, err, "state")
	default:
		t.Fatal("expected an error on the channel")
	}
	assert.Empty(t, codeCh)
}

func TestCallbackHandler_ProviderDenied(t *testing.T) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	h := callbackHandler("state123", codeCh, errCh)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/callback?error=access_denied", nil)
	h(w, r)

	assert.Equal(t, 400, w.Code)
	select {
	case err := <-errCh:
		assert.ErrorContains(t, err, "access_denied")
	default:
		t.Fatal("expected an error on the channel")
	}
}

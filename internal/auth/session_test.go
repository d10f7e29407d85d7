package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAuthenticator returns a canned token or error; authFunc, when set,
// takes precedence.
type fakeAuthenticator struct {
	token    Token
	err      error
	authFunc func(ctx context.Context) (Token, error)
}

func (f *fakeAuthenticator) Authenticate(ctx context.Context) (Token, error) {
	if f.authFunc != nil {
		return f.authFunc(ctx)
	}
	return f.token, f.err
}

func validToken() Token {
	return Token{
		AccessToken: "ya29.test",
		Expiry:      time.Now().Add(time.Hour),
		Account:     "band@school.edu",
	}
}

func TestSession_StartsSignedOut(t *testing.T) {
	s := NewSession(&fakeAuthenticator{}, zap.NewNop())
	assert.Equal(t, SignedOut, s.State())
	assert.False(t, s.SignedIn())

	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSignIn_Success(t *testing.T) {
	s := NewSession(&fakeAuthenticator{token: validToken()}, zap.NewNop())

	require.NoError(t, s.SignIn(context.Background()))
	assert.Equal(t, SignedIn, s.State())
	assert.Equal(t, "band@school.edu", s.Account())

	tok, err := s.Token()
	require.NoError(t, err)
	assert.Equal(t, "ya29.test", tok.AccessToken)
}

func TestSignIn_ProviderFailureIsRecoverable(t *testing.T) {
	authn := &fakeAuthenticator{err: errors.New("user closed the consent screen")}
	s := NewSession(authn, zap.NewNop())

	err := s.SignIn(context.Background())
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, SignedOut, s.State())

	// Retry succeeds once the provider cooperates.
	authn.err = nil
	authn.token = validToken()
	assert.NoError(t, s.SignIn(context.Background()))
	assert.True(t, s.SignedIn())
}

func TestSignIn_AlreadySignedInIsNoop(t *testing.T) {
	calls := 0
	authn := &fakeAuthenticator{authFunc: func(context.Context) (Token, error) {
		calls++
		return validToken(), nil
	}}
	s := NewSession(authn, zap.NewNop())

	require.NoError(t, s.SignIn(context.Background()))
	require.NoError(t, s.SignIn(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestSignOut_Unconditional(t *testing.T) {
	s := NewSession(&fakeAuthenticator{token: validToken()}, zap.NewNop())
	require.NoError(t, s.SignIn(context.Background()))

	before := s.Epoch()
	s.SignOut()
	assert.Equal(t, SignedOut, s.State())
	assert.Empty(t, s.Account())
	assert.Greater(t, s.Epoch(), before, "sign-out must move the epoch")

	_, err := s.Token()
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSignOut_DuringAuthenticationDiscardsToken(t *testing.T) {
	exchange := make(chan struct{})
	started := make(chan struct{})
	authn := &fakeAuthenticator{authFunc: func(context.Context) (Token, error) {
		close(started)
		<-exchange
		return validToken(), nil
	}}
	s := NewSession(authn, zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- s.SignIn(context.Background()) }()

	<-started
	s.SignOut()
	close(exchange)

	err := <-done
	assert.ErrorIs(t, err, ErrAuthFailed)
	assert.Equal(t, SignedOut, s.State())
}

func TestToken_ExpiryForcesSignedOut(t *testing.T) {
	s := NewSession(&fakeAuthenticator{token: validToken()}, zap.NewNop())
	require.NoError(t, s.SignIn(context.Background()))

	// Move the clock past the token expiry.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	epochBefore := s.Epoch()
	_, err := s.Token()
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, SignedOut, s.State(), "expiry must force signed-out")
	assert.Greater(t, s.Epoch(), epochBefore)

	// The next caller must re-authenticate.
	_, err = s.Token()
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

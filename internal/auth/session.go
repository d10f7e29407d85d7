// Package auth manages the sign-in session against the cloud identity
// provider. The interactive authorization exchange itself is a
// collaborator behind the Authenticator interface; the session only holds
// the resulting bearer token and its expiry.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotSignedIn means the operation requires a signed-in session.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrSessionExpired means the held token is past its expiry. The
	// session is forced back to signed-out as a side effect.
	ErrSessionExpired = errors.New("session expired")
	// ErrAuthFailed means the provider exchange failed or was cancelled.
	// Recoverable: the session is back at signed-out and SignIn can be
	// retried.
	ErrAuthFailed = errors.New("authentication failed")
)

// State is the session lifecycle state.
type State string

const (
	SignedOut      State = "signed-out"
	Authenticating State = "authenticating"
	SignedIn       State = "signed-in"
)

// Token is a bearer token with expiry plus the account it belongs to.
type Token struct {
	AccessToken string
	Expiry      time.Time
	// Account is the provider-side identity (email) the token was issued
	// for. Used to derive the per-account backup key.
	Account string
}

// Authenticator runs the provider's interactive authorization exchange.
type Authenticator interface {
	Authenticate(ctx context.Context) (Token, error)
}

// Session is the auth state machine:
//
//	SignedOut → Authenticating → SignedIn → SignedOut
//
// Safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	state State
	token Token
	epoch uint64

	authn Authenticator
	log   *zap.Logger
	now   func() time.Time
}

// NewSession returns a signed-out session using the given authenticator.
func NewSession(authn Authenticator, log *zap.Logger) *Session {
	return &Session{
		state: SignedOut,
		authn: authn,
		log:   log,
		now:   time.Now,
	}
}

// SignIn transitions to Authenticating, runs the interactive exchange,
// and on success holds the token as SignedIn. Cancellation or a provider
// error transitions back to SignedOut and reports ErrAuthFailed; it is
// never fatal to the application.
func (s *Session) SignIn(ctx context.Context) error {
	s.mu.Lock()
	if s.state == SignedIn {
		s.mu.Unlock()
		return nil
	}
	s.state = Authenticating
	s.mu.Unlock()

	// The exchange suspends on user interaction and network I/O; the lock
	// is not held across it.
	tok, err := s.authn.Authenticate(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = SignedOut
		s.log.Warn("sign-in failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}
	if s.state != Authenticating {
		// Signed out while the exchange was in flight; drop the token.
		s.log.Info("sign-in completed after sign-out, token discarded")
		return fmt.Errorf("%w: signed out during authentication", ErrAuthFailed)
	}
	s.state = SignedIn
	s.token = tok
	s.log.Info("signed in", zap.String("account", tok.Account), zap.Time("expiry", tok.Expiry))
	return nil
}

// SignOut clears the token and transitions to SignedOut unconditionally,
// even while a sync is in flight. The epoch moves so in-flight sync
// results are discarded on completion.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SignedOut
	s.token = Token{}
	s.epoch++
	s.log.Info("signed out")
}

// Token returns the held bearer token. It fails with ErrNotSignedIn when
// no session is held, and with ErrSessionExpired when the token is past
// expiry, in which case the session is forced to SignedOut so the next
// caller must re-authenticate.
func (s *Session) Token() (Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SignedIn {
		return Token{}, ErrNotSignedIn
	}
	if !s.token.Expiry.IsZero() && s.now().After(s.token.Expiry) {
		s.state = SignedOut
		s.token = Token{}
		s.epoch++
		s.log.Warn("session token expired, signed out")
		return Token{}, ErrSessionExpired
	}
	return s.token, nil
}

// SignedIn reports whether a session is currently held. It does not
// check expiry; Token does.
func (s *Session) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == SignedIn
}

// Account returns the signed-in account identity, or "" when signed out.
func (s *Session) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token.Account
}

// Epoch increments on every transition out of SignedIn. A sync operation
// records the epoch before its first network call and discards its result
// if the epoch moved while it was suspended.
func (s *Session) Epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

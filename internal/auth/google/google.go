// Package google implements the interactive Google sign-in flow as an
// auth.Authenticator: an OAuth 2.0 authorization-code exchange with a
// loopback redirect server catching the browser callback.
package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/bandstand/bandstand/internal/auth"
)

// endpoint is Google's OAuth 2.0 authorization and token endpoint pair.
var endpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// defaultScopes requests an identity we can key backups by plus access to
// the app's own storage area.
var defaultScopes = []string{
	"openid",
	"email",
	"https://www.googleapis.com/auth/drive.appdata",
}

// Config carries the OAuth client registration and the loopback address.
type Config struct {
	// ClientID and ClientSecret identify the registered OAuth client.
	ClientID     string
	ClientSecret string
	// ListenAddr is the loopback address for the redirect server,
	// e.g. "127.0.0.1:8910". It must match the client registration.
	ListenAddr string
	// Scopes overrides defaultScopes when non-empty.
	Scopes []string
}

// Authenticator runs the browser-based Google sign-in exchange.
type Authenticator struct {
	cfg Config
	log *zap.Logger
	// openURL is called with the consent URL the user must visit.
	openURL func(url string)
}

// New returns an Authenticator that prints the consent URL to stdout.
func New(cfg Config, log *zap.Logger) *Authenticator {
	return &Authenticator{
		cfg: cfg,
		log: log,
		openURL: func(url string) {
			fmt.Printf("Open this URL in your browser to sign in:\n\n  %s\n\n", url)
		},
	}
}

// Authenticate starts the loopback redirect server, directs the user to
// Google's consent screen, exchanges the returned code for tokens, and
// derives the account identity from the ID token. Cancelling ctx aborts
// the wait and surfaces as an ordinary error, which the session reports
// as a recoverable auth failure.
func (a *Authenticator) Authenticate(ctx context.Context) (auth.Token, error) {
	state, err := randomState()
	if err != nil {
		return auth.Token{}, fmt.Errorf("generating state: %w", err)
	}

	conf := &oauth2.Config{
		ClientID:     a.cfg.ClientID,
		ClientSecret: a.cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  "http://" + a.cfg.ListenAddr + "/callback",
		Scopes:       a.cfg.Scopes,
	}
	if len(conf.Scopes) == 0 {
		conf.Scopes = defaultScopes
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	r := chi.NewRouter()
	r.Get("/callback", callbackHandler(state, codeCh, errCh))

	srv := &http.Server{Addr: a.cfg.ListenAddr, Handler: r}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("redirect server: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	url := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	a.log.Info("waiting for browser authorization", zap.String("listen", a.cfg.ListenAddr))
	a.openURL(url)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return auth.Token{}, err
	case <-ctx.Done():
		return auth.Token{}, fmt.Errorf("authorization cancelled: %w", ctx.Err())
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return auth.Token{}, fmt.Errorf("exchanging authorization code: %w", err)
	}

	account := ""
	if raw, ok := tok.Extra("id_token").(string); ok {
		account, err = accountFromIDToken(raw)
		if err != nil {
			return auth.Token{}, fmt.Errorf("reading id token: %w", err)
		}
	}
	if account == "" {
		return auth.Token{}, errors.New("provider returned no account identity")
	}

	return auth.Token{
		AccessToken: tok.AccessToken,
		Expiry:      tok.Expiry,
		Account:     account,
	}, nil
}

// callbackHandler validates the state parameter and hands the code to the
// waiting Authenticate call.
func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if errMsg := q.Get("error"); errMsg != "" {
			http.Error(w, "Authorization was denied. You can close this window.", http.StatusBadRequest)
			errCh <- fmt.Errorf("provider denied authorization: %s", errMsg)
			return
		}
		if q.Get("state") != state {
			http.Error(w, "State mismatch. You can close this window.", http.StatusBadRequest)
			errCh <- errors.New("state parameter mismatch")
			return
		}
		code := q.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			errCh <- errors.New("callback without authorization code")
			return
		}
		fmt.Fprintln(w, "Signed in. You can close this window and return to bandstand.")
		codeCh <- code
	}
}

// accountFromIDToken extracts the email (falling back to the subject)
// from the ID token. The token arrives straight from the token endpoint
// over TLS, so the claims are parsed without local signature verification.
func accountFromIDToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return "", fmt.Errorf("parsing id token: %w", err)
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email, nil
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub, nil
	}
	return "", errors.New("id token carries neither email nor subject")
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

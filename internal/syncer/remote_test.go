package syncer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripperFunc lets a bare function stand in for an http.Client
// transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(fn roundTripperFunc) *http.Client {
	return &http.Client{Transport: fn, Timeout: time.Second}
}

func TestHTTPRemote_Put(t *testing.T) {
	var gotMethod, gotURL, gotAuth, gotBody string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		gotMethod = req.Method
		gotURL = req.URL.String()
		gotAuth = req.Header.Get("Authorization")
		b, _ := io.ReadAll(req.Body)
		gotBody = string(b)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})

	r := NewHTTPRemote("https://blob.example.com", client)
	err := r.Put(context.Background(), "bandstand/v1/a@b/backup.json", "tok123", []byte(`{"items":[]}`))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "https://blob.example.com/bandstand/v1/a@b/backup.json", gotURL)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, `{"items":[]}`, gotBody)
}

func TestHTTPRemote_PutServerError(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			Status:     "507 Insufficient Storage",
			StatusCode: http.StatusInsufficientStorage,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})

	r := NewHTTPRemote("https://blob.example.com", client)
	err := r.Put(context.Background(), "k", "tok", nil)
	assert.ErrorContains(t, err, "507")
}

func TestHTTPRemote_PutNetworkError(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})

	r := NewHTTPRemote("https://blob.example.com", client)
	err := r.Put(context.Background(), "k", "tok", nil)
	assert.ErrorContains(t, err, "network down")
}

func TestHTTPRemote_Get(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "Bearer tok123", req.Header.Get("Authorization"))
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"schema_version":1}`)),
		}, nil
	})

	r := NewHTTPRemote("https://blob.example.com", client)
	body, err := r.Get(context.Background(), "k", "tok123")
	require.NoError(t, err)
	assert.Equal(t, `{"schema_version":1}`, string(body))
}

func TestHTTPRemote_GetNotFound(t *testing.T) {
	client := newTestClient(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})

	r := NewHTTPRemote("https://blob.example.com", client)
	_, err := r.Get(context.Background(), "k", "tok")
	assert.ErrorIs(t, err, ErrNoBackupFound)
}

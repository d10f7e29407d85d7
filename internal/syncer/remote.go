package syncer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPRemote talks to the blob store over plain HTTP object semantics:
// PUT to write the backup object, GET to read it, bearer token auth.
// The injected client owns timeouts and deadlines.
type HTTPRemote struct {
	base   string
	client *http.Client
}

// NewHTTPRemote returns a remote rooted at base, e.g.
// "https://storage.example.com". A nil client uses http.DefaultClient.
func NewHTTPRemote(base string, client *http.Client) *HTTPRemote {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRemote{base: base, client: client}
}

// Put uploads body under key, overwriting any previous object.
func (r *HTTPRemote) Put(ctx context.Context, key, bearer string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, r.base+"/"+key, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("uploading backup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("uploading backup: remote returned %s", resp.Status)
	}
	return nil
}

// Get downloads the object under key. A 404 is reported as
// ErrNoBackupFound.
func (r *HTTPRemote) Get(ctx context.Context, key, bearer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base+"/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("building download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading backup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNoBackupFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("downloading backup: remote returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading backup body: %w", err)
	}
	return body, nil
}

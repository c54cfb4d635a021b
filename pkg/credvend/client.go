// Package credvend resolves caller-supplied credential input into
// backend-ready credentials.
//
// Two inputs are supported: direct account credentials, which are validated
// and passed through, and a delegated identity token, which is exchanged at
// a remote credential vending service for a pair of short-lived container
// URLs. Only the client side of the exchange lives here; the vending
// protocol itself is the service's concern.
//
// The resolver takes every value as an explicit parameter. It never reads
// process environment; environment merging happens once in the
// configuration layer.
package credvend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/duotier/duostore/pkg/backend"
)

// DefaultTimeout bounds one credential exchange when no HTTP client is
// injected.
const DefaultTimeout = 10 * time.Second

// credentialsPath is the vending service exchange endpoint.
const credentialsPath = "/v1/credentials"

// Account normalizes direct account input into validated backend
// credentials. No network calls are made.
func Account(account, accessKey, containerPrefix, endpoint, region string) (backend.Credentials, error) {
	creds := backend.Credentials{
		Account: &backend.AccountCredentials{
			Account:         strings.TrimSpace(account),
			AccessKey:       strings.TrimSpace(accessKey),
			ContainerPrefix: strings.TrimSpace(containerPrefix),
			Endpoint:        strings.TrimSpace(endpoint),
			Region:          strings.TrimSpace(region),
		},
	}
	if err := creds.Validate(); err != nil {
		return backend.Credentials{}, err
	}
	return creds, nil
}

// Client exchanges delegated identity tokens at a vending service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config configures a vending client.
type Config struct {
	// BaseURL is the vending service root (required).
	BaseURL string

	// Timeout bounds one exchange. Zero means DefaultTimeout. Ignored
	// when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the default client. Optional; the default
	// applies Timeout.
	HTTPClient *http.Client
}

// New creates a vending client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, &backend.CredentialError{Field: "Vendor.BaseURL", Reason: backend.ReasonMissingRequired}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: base, httpClient: httpClient}, nil
}

// ExchangeError reports a failed exchange with the vending service.
type ExchangeError struct {
	// Status is the HTTP status of the vending response, 0 if the
	// request never completed.
	Status int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("credential exchange failed with status %d", e.Status)
	}
	return fmt.Sprintf("credential exchange failed: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExchangeError) Unwrap() error {
	return e.Err
}

// Resolve exchanges a delegated identity token for backend credentials.
func (c *Client) Resolve(ctx context.Context, token string) (backend.Credentials, error) {
	if strings.TrimSpace(token) == "" {
		return backend.Credentials{}, &backend.CredentialError{Field: "Vendor.Token", Reason: backend.ReasonMissingRequired}
	}

	reqBody, err := json.Marshal(struct {
		Token string `json:"token"`
	}{Token: token})
	if err != nil {
		return backend.Credentials{}, &ExchangeError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+credentialsPath, bytes.NewReader(reqBody))
	if err != nil {
		return backend.Credentials{}, &ExchangeError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return backend.Credentials{}, &ExchangeError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return backend.Credentials{}, &ExchangeError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var vended struct {
		PrivateURL string `json:"privateUrl"`
		PublicURL  string `json:"publicUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&vended); err != nil {
		return backend.Credentials{}, &ExchangeError{Err: err}
	}

	creds := backend.Credentials{
		Delegated: &backend.DelegatedCredentials{
			PrivateURL: vended.PrivateURL,
			PublicURL:  vended.PublicURL,
		},
	}
	if err := creds.Validate(); err != nil {
		return backend.Credentials{}, err
	}
	return creds, nil
}

package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/duotier/duostore/pkg/backend"
)

// Delegated container URLs carry everything needed to reach one bucket with
// temporary credentials, serialized by the vending service as:
//
//	https://<endpoint-host>/<bucket>?access-key-id=...&secret-access-key=...&session-token=...
//
// The session token is optional; the other two query parameters and the
// bucket path segment are required. Anything else in the query is ignored.
const (
	paramAccessKeyID     = "access-key-id"
	paramSecretAccessKey = "secret-access-key"
	paramSessionToken    = "session-token"
)

// openDelegated builds the container pair from two vended URLs.
func openDelegated(ctx context.Context, d *backend.DelegatedCredentials) (private, public *Container, err error) {
	private, err = openVendedURL(ctx, "Delegated.PrivateURL", d.PrivateURL)
	if err != nil {
		return nil, nil, err
	}
	public, err = openVendedURL(ctx, "Delegated.PublicURL", d.PublicURL)
	if err != nil {
		return nil, nil, err
	}
	return private, public, nil
}

// openVendedURL parses one vended container URL and builds its client.
func openVendedURL(ctx context.Context, field, raw string) (*Container, error) {
	cc, bucket, err := parseVendedURL(raw)
	if err != nil {
		return nil, &backend.CredentialError{Field: field, Reason: err.Error()}
	}

	client, err := newClient(ctx, cc)
	if err != nil {
		return nil, wrapError("Open", bucket, "", err)
	}
	return &Container{client: client, bucket: bucket}, nil
}

// parseVendedURL splits a vended URL into client configuration and bucket.
func parseVendedURL(raw string) (clientConfig, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return clientConfig{}, "", fmt.Errorf("malformed URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return clientConfig{}, "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	bucket := strings.Trim(u.Path, "/")
	if bucket == "" || strings.Contains(bucket, "/") {
		return clientConfig{}, "", fmt.Errorf("URL path must name exactly one bucket")
	}

	q := u.Query()
	cc := clientConfig{
		accessKeyID:     q.Get(paramAccessKeyID),
		secretAccessKey: q.Get(paramSecretAccessKey),
		sessionToken:    q.Get(paramSessionToken),
		endpoint:        u.Scheme + "://" + u.Host,
	}
	if cc.accessKeyID == "" {
		return clientConfig{}, "", fmt.Errorf("missing %s query parameter", paramAccessKeyID)
	}
	if cc.secretAccessKey == "" {
		return clientConfig{}, "", fmt.Errorf("missing %s query parameter", paramSecretAccessKey)
	}

	return cc, bucket, nil
}

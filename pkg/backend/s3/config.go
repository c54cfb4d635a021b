// Package s3 implements the backend container interfaces for AWS S3 and
// S3-compatible storage.
//
// This is the one active backend. Both tiers of the store map onto a pair of
// buckets: account credentials name the pair via a container prefix
// ("<prefix>-private" / "<prefix>-public"), while delegated credentials
// address each bucket directly through a vended URL.
package s3

import (
	"strings"

	"github.com/duotier/duostore/pkg/backend"
)

// Config configures the S3 container pair for account credentials.
//
// Authentication is always explicit: the account identifier and access key
// arrive pre-resolved from the credential layer. The SDK default credential
// chain is deliberately not consulted - environment discovery happens once,
// at configuration time, outside this package.
//
// For S3-compatible stores (MinIO, Wasabi, DigitalOcean Spaces), set
// Endpoint; path-style addressing is forced automatically.
type Config struct {
	// Account is the access key identifier (required).
	Account string

	// AccessKey is the secret access key (required).
	AccessKey string

	// ContainerPrefix names the bucket pair (required).
	// Buckets are derived as "<prefix>-private" and "<prefix>-public".
	ContainerPrefix string

	// Endpoint is a custom endpoint URL for S3-compatible stores.
	// Leave empty for AWS S3.
	Endpoint string

	// Region is the AWS region. Defaults to us-east-1 when not set.
	Region string
}

// DefaultRegion is the fallback region for AWS S3 when none is specified.
const DefaultRegion = "us-east-1"

// Suffixes appended to the container prefix to derive bucket names.
const (
	privateSuffix = "-private"
	publicSuffix  = "-public"
)

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Account) == "":
		return &backend.CredentialError{Field: "Account.Account", Reason: backend.ReasonMissingRequired}
	case strings.TrimSpace(c.AccessKey) == "":
		return &backend.CredentialError{Field: "Account.AccessKey", Reason: backend.ReasonMissingRequired}
	case strings.TrimSpace(c.ContainerPrefix) == "":
		return &backend.CredentialError{Field: "Account.ContainerPrefix", Reason: backend.ReasonMissingRequired}
	}
	return nil
}

// PrivateBucket returns the derived private bucket name.
func (c *Config) PrivateBucket() string {
	return c.ContainerPrefix + privateSuffix
}

// PublicBucket returns the derived public bucket name.
func (c *Config) PublicBucket() string {
	return c.ContainerPrefix + publicSuffix
}

// resolveRegion applies the region fallback after SDK config loading.
//
// The SDK result already incorporates an explicit region when one was set.
// An empty region falls back to us-east-1: request signing always needs a
// region, and S3-compatible stores accept any value there.
func resolveRegion(sdkRegion string) string {
	if sdkRegion != "" {
		return sdkRegion
	}
	return DefaultRegion
}

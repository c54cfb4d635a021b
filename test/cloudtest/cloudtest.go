// Package cloudtest provides helpers for cloud integration tests using moto.
//
// These helpers enable testing the S3 container backend against a local
// S3-compatible endpoint without real credentials. Tests using this package
// should be tagged with //go:build cloudintegration.
//
// Usage:
//
//	func TestTwoTierListing(t *testing.T) {
//	    cloudtest.SkipIfUnavailable(t)
//	    creds := cloudtest.AccountCredentials(t)
//	    private, public := cloudtest.ContainerPair(t, ctx, creds)
//	    cloudtest.SeedObjects(t, ctx, private, []string{"afile.html"})
//	    // ... test code ...
//	}
package cloudtest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/duotier/duostore/pkg/backend"
)

const (
	// DefaultEndpoint is the default moto server endpoint.
	// Port 5555 avoids conflict with macOS AirTunes on 5000.
	DefaultEndpoint = "http://localhost:5555"

	// DefaultRegion is the default region for tests.
	DefaultRegion = "us-east-1"

	// TestAccessKeyID is the access key used for moto (accepts any).
	TestAccessKeyID = "testing"

	// TestSecretAccessKey is the secret key used for moto (accepts any).
	TestSecretAccessKey = "testing"
)

var (
	// Endpoint is the moto server endpoint, configurable via MOTO_ENDPOINT env var.
	Endpoint = getEnvOrDefault("MOTO_ENDPOINT", DefaultEndpoint)

	// Region is the region for tests, configurable via MOTO_REGION env var.
	Region = getEnvOrDefault("MOTO_REGION", DefaultRegion)
)

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Available checks if the moto server is reachable.
func Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, Endpoint+"/moto-api/", nil)
	if err != nil {
		return false
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// SkipIfUnavailable skips the test if moto server is not available.
func SkipIfUnavailable(t *testing.T) {
	t.Helper()
	if !Available() {
		t.Skipf("moto server not available at %s (start with: make moto-start)", Endpoint)
	}
}

// Reset clears all moto state. Call this between tests for isolation.
func Reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint+"/moto-api/reset", nil)
	if err != nil {
		return fmt.Errorf("create reset request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("reset request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reset returned status %d", resp.StatusCode)
	}

	return nil
}

// ContainerPrefix derives a unique container prefix from the test name, so
// parallel tests never share a bucket pair.
func ContainerPrefix(t *testing.T) string {
	t.Helper()

	name := strings.ToLower(t.Name())
	name = strings.ReplaceAll(name, "/", "-")
	name = strings.ReplaceAll(name, "_", "-")
	// Leave room for the -private/-public suffix under the 63-char
	// bucket name limit.
	if len(name) > 40 {
		name = name[:40]
	}
	return fmt.Sprintf("%s-%d", name, time.Now().UnixNano()%100000)
}

// AccountCredentials builds account credentials pointed at moto, with a
// unique container prefix per test.
func AccountCredentials(t *testing.T) backend.Credentials {
	t.Helper()

	return backend.Credentials{Account: &backend.AccountCredentials{
		Account:         TestAccessKeyID,
		AccessKey:       TestSecretAccessKey,
		ContainerPrefix: ContainerPrefix(t),
		Endpoint:        Endpoint,
		Region:          Region,
	}}
}

// VendedURL builds a delegated container URL for a moto-hosted bucket, in
// the same shape a credential vending service would issue.
func VendedURL(bucket string) string {
	q := url.Values{}
	q.Set("access-key-id", TestAccessKeyID)
	q.Set("secret-access-key", TestSecretAccessKey)
	return fmt.Sprintf("%s/%s?%s", Endpoint, bucket, q.Encode())
}

// Client returns an S3 client configured for moto.
func Client(t *testing.T) *s3.Client {
	t.Helper()

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			TestAccessKeyID,
			TestSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		t.Fatalf("failed to load client config: %v", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(Endpoint)
		o.UsePathStyle = true
	})
}

// CreateBucketPair provisions the <prefix>-private and <prefix>-public
// buckets directly and registers cleanup. Use this when the test exercises
// delegated credentials and the creation path must not run.
func CreateBucketPair(t *testing.T, ctx context.Context, prefix string) (private, public string) {
	t.Helper()

	private = prefix + "-private"
	public = prefix + "-public"
	for _, bucket := range []string{private, public} {
		CreateBucket(t, ctx, bucket)
	}
	return private, public
}

// CreateBucket creates one bucket and registers cleanup.
func CreateBucket(t *testing.T, ctx context.Context, bucket string) {
	t.Helper()

	c := Client(t)
	_, err := c.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		t.Fatalf("failed to create bucket %s: %v", bucket, err)
	}

	t.Cleanup(func() {
		DeleteBucket(t, context.Background(), bucket)
	})
}

// DeleteBucket deletes a bucket and all its contents.
func DeleteBucket(t *testing.T, ctx context.Context, bucket string) {
	t.Helper()

	c := Client(t)

	paginator := s3.NewListObjectsV2Paginator(c, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			t.Logf("warning: failed to list objects in bucket %s: %v", bucket, err)
			return
		}
		for _, obj := range page.Contents {
			_, err := c.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(bucket),
				Key:    obj.Key,
			})
			if err != nil {
				t.Logf("warning: failed to delete object %s: %v", *obj.Key, err)
			}
		}
	}

	_, err := c.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)})
	if err != nil {
		t.Logf("warning: failed to delete bucket %s: %v", bucket, err)
	}
}

// SeedObjects uploads placeholder content under each key.
func SeedObjects(t *testing.T, ctx context.Context, bucket string, keys []string) {
	t.Helper()

	c := Client(t)
	for _, key := range keys {
		_, err := c.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   strings.NewReader("test content for " + key),
		})
		if err != nil {
			t.Fatalf("failed to put object %s/%s: %v", bucket, key, err)
		}
	}
}

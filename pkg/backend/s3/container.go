package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/duotier/duostore/pkg/backend"
)

// Container implements backend.Container for a single S3 bucket.
type Container struct {
	client *s3.Client
	bucket string
}

// Ensure Container implements the interfaces.
var (
	_ backend.Container     = (*Container)(nil)
	_ backend.ObjectGetter  = (*Container)(nil)
	_ backend.ObjectPutter  = (*Container)(nil)
	_ backend.ObjectDeleter = (*Container)(nil)
)

// Open builds the private and public container pair for the given
// credentials.
//
// Account credentials produce two buckets on one client, derived from the
// container prefix. Delegated credentials are parsed per tier from the
// vended URLs; each tier may point at a different endpoint. Open performs no
// network calls; container creation is driven separately through Ensure.
func Open(ctx context.Context, creds backend.Credentials) (private, public *Container, err error) {
	if err := creds.Validate(); err != nil {
		return nil, nil, err
	}

	if creds.Delegated != nil {
		return openDelegated(ctx, creds.Delegated)
	}

	cfg := Config{
		Account:         creds.Account.Account,
		AccessKey:       creds.Account.AccessKey,
		ContainerPrefix: creds.Account.ContainerPrefix,
		Endpoint:        creds.Account.Endpoint,
		Region:          creds.Account.Region,
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := newClient(ctx, clientConfig{
		accessKeyID:     cfg.Account,
		secretAccessKey: cfg.AccessKey,
		endpoint:        cfg.Endpoint,
		region:          cfg.Region,
	})
	if err != nil {
		return nil, nil, wrapError("Open", cfg.PrivateBucket(), "", err)
	}

	return &Container{client: client, bucket: cfg.PrivateBucket()},
		&Container{client: client, bucket: cfg.PublicBucket()},
		nil
}

// clientConfig is the resolved input for building one S3 client.
type clientConfig struct {
	accessKeyID     string
	secretAccessKey string
	sessionToken    string
	endpoint        string
	region          string
}

// newClient builds an S3 client from explicit static credentials.
func newClient(ctx context.Context, cc clientConfig) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cc.region != "" {
		opts = append(opts, config.WithRegion(cc.region))
	}

	staticCreds := credentials.NewStaticCredentialsProvider(
		cc.accessKeyID,
		cc.secretAccessKey,
		cc.sessionToken,
	)
	opts = append(opts, config.WithCredentialsProvider(staticCreds))

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	awsCfg.Region = resolveRegion(awsCfg.Region)

	s3Opts := []func(*s3.Options){}
	if cc.endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cc.endpoint)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, s3Opts...), nil
}

// Name returns the bucket name backing this container.
func (c *Container) Name() string {
	return c.bucket
}

// Probe checks that a blob with the exact key exists.
func (c *Container) Probe(ctx context.Context, key string) error {
	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapError("Probe", c.bucket, key, err)
	}
	return nil
}

// ListPage returns one page of blob names starting with prefix.
//
// The returned NextMarker follows the package convention: empty string means
// the listing is complete. A NextContinuationToken on a non-truncated
// response is discarded so the convention holds regardless of provider
// quirks.
func (c *Container) ListPage(ctx context.Context, prefix, marker string) (*backend.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if marker != "" {
		input.ContinuationToken = aws.String(marker)
	}

	output, err := c.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, wrapError("ListPage", c.bucket, "", err)
	}
	return pageFromList(output), nil
}

// pageFromList converts a listing response into a page, enforcing the marker
// convention: a continuation token on a non-truncated response is discarded.
func pageFromList(output *s3.ListObjectsV2Output) *backend.Page {
	names := make([]string, 0, len(output.Contents))
	for _, obj := range output.Contents {
		names = append(names, aws.ToString(obj.Key))
	}

	page := &backend.Page{Names: names}
	if aws.ToBool(output.IsTruncated) && output.NextContinuationToken != nil {
		page.NextMarker = *output.NextContinuationToken
	}
	return page
}

// Ensure idempotently creates the bucket.
//
// Public-read containers additionally get a bucket policy allowing anonymous
// GetObject on every key. The policy is applied only on fresh creation; an
// existing bucket surfaces ErrAlreadyExists and is left untouched, so a
// policy removed out-of-band is not reapplied.
func (c *Container) Ensure(ctx context.Context, access backend.AccessLevel) error {
	_, err := c.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return wrapError("Ensure", c.bucket, "", err)
	}

	if access == backend.AccessPublicRead {
		policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Sid":"PublicRead","Effect":"Allow","Principal":"*","Action":"s3:GetObject","Resource":"arn:aws:s3:::%s/*"}]}`, c.bucket)
		_, err := c.client.PutBucketPolicy(ctx, &s3.PutBucketPolicyInput{
			Bucket: aws.String(c.bucket),
			Policy: aws.String(policy),
		})
		if err != nil {
			return wrapError("Ensure", c.bucket, "", err)
		}
	}

	return nil
}

// GetObject downloads a blob as a stream.
func (c *Container) GetObject(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	output, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, wrapError("GetObject", c.bucket, key, err)
	}
	return output.Body, aws.ToInt64(output.ContentLength), nil
}

// PutObject uploads a blob.
func (c *Container) PutObject(ctx context.Context, key string, body io.Reader, contentLength int64) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: &contentLength,
	})
	if err != nil {
		return wrapError("PutObject", c.bucket, key, err)
	}
	return nil
}

// DeleteObject deletes a blob.
func (c *Container) DeleteObject(ctx context.Context, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapError("DeleteObject", c.bucket, key, err)
	}
	return nil
}

// wrapError converts S3 errors to backend errors with appropriate sentinels,
// preserving the HTTP status of the response when one is discoverable.
func wrapError(op, bucket, key string, err error) error {
	wrapped := &backend.Error{
		Op:        op,
		Kind:      backend.KindS3,
		Container: bucket,
		Key:       key,
		Err:       err,
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		wrapped.Status = respErr.HTTPStatusCode()
	}

	// Check for specific S3 error types first
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	var ownedByYou *types.BucketAlreadyOwnedByYou
	var alreadyExists *types.BucketAlreadyExists

	switch {
	case errors.As(err, &notFound), errors.As(err, &noSuchKey):
		wrapped.Err = backend.ErrNotFound
		return wrapped
	case errors.As(err, &ownedByYou), errors.As(err, &alreadyExists):
		wrapped.Err = backend.ErrAlreadyExists
		return wrapped
	}

	// Check smithy API errors for error codes
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			wrapped.Err = backend.ErrNotFound
		case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
			wrapped.Err = backend.ErrAlreadyExists
		case "AccessDenied", "Forbidden":
			wrapped.Err = backend.ErrForbidden
		}
		return wrapped
	}

	// Fallback: check error message for common cases
	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchKey") || strings.Contains(msg, "NotFound") || strings.Contains(msg, "404"):
		wrapped.Err = backend.ErrNotFound
	case strings.Contains(msg, "BucketAlreadyOwnedByYou") || strings.Contains(msg, "BucketAlreadyExists"):
		wrapped.Err = backend.ErrAlreadyExists
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "Forbidden") || strings.Contains(msg, "403"):
		wrapped.Err = backend.ErrForbidden
	}

	return wrapped
}

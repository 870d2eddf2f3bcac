package reference

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BucketOpener reads table files from an S3 compatible bucket.
type BucketOpener struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewBucketOpener constructs the object storage adapter.
func NewBucketOpener(endpoint, accessKey, secretKey, bucket, region, prefix string) (*BucketOpener, error) {
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage client: %w", err)
	}
	return &BucketOpener{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// Open implements Opener.
func (o *BucketOpener) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := o.objectKey(name)
	obj, err := o.client.GetObject(ctx, o.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return obj, nil
}

// Describe implements Opener.
func (o *BucketOpener) Describe() string {
	return fmt.Sprintf("bucket:%s/%s", o.bucket, o.prefix)
}

func (o *BucketOpener) objectKey(name string) string {
	if o.prefix == "" {
		return name
	}
	return path.Join(o.prefix, name)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.Index(raw, "/"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/newthinker/screener/internal/core"
)

// S3Config points the archive at a bucket. Endpoint is set for MinIO and
// other S3-compatible stores, which also switches to path-style addressing.
type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// objectAPI is the part of the S3 client the archive uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Storage keeps scan snapshots as JSON objects under an optional key
// prefix.
type S3Storage struct {
	api    objectAPI
	bucket string
	prefix string
}

// NewS3 builds the bucket client from static credentials.
func NewS3(cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, core.WrapError(core.ErrConfigMissing, errors.New("archive s3 bucket required"))
	}
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return newS3Storage(s3.New(opts), cfg.Bucket, cfg.Prefix), nil
}

func newS3Storage(api objectAPI, bucket, prefix string) *S3Storage {
	return &S3Storage{api: api, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// objectKey maps a snapshot path to its bucket key.
func (s *S3Storage) objectKey(p string) string {
	if s.prefix == "" {
		return p
	}
	return path.Join(s.prefix, p)
}

// snapshotPath is objectKey reversed.
func (s *S3Storage) snapshotPath(key string) string {
	if s.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, s.prefix+"/")
}

// Write uploads one snapshot.
func (s *S3Storage) Write(ctx context.Context, p string, data []byte) error {
	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.objectKey(p)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, s.objectKey(p), err)
	}
	return nil
}

// Read downloads one snapshot. A missing key is core.ErrNotFound.
func (s *S3Storage) Read(ctx context.Context, p string) ([]byte, error) {
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(p)),
	})
	if err != nil {
		var missing *types.NoSuchKey
		if errors.As(err, &missing) {
			return nil, core.WrapError(core.ErrNotFound, fmt.Errorf("snapshot %s", p))
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.objectKey(p), err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// List returns the snapshot paths under prefix, sorted. Keys that are not
// JSON snapshots are skipped.
func (s *S3Storage) List(ctx context.Context, prefix string) ([]string, error) {
	keyPrefix := s.objectKey(prefix)
	if keyPrefix != "" {
		keyPrefix += "/"
	}
	paths := []string{}
	pages := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(keyPrefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, s.objectKey(prefix), err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			paths = append(paths, s.snapshotPath(key))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newthinker/screener/internal/core"
)

// memBucket serves S3 calls from a map, one key per ListObjectsV2 page.
type memBucket struct {
	objects      map[string][]byte
	contentTypes map[string]string
	listErr      error
}

func newMemBucket() *memBucket {
	return &memBucket{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (b *memBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	b.objects[key] = data
	b.contentTypes[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (b *memBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := b.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (b *memBucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	var keys []string
	for k := range b.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) && k > aws.ToString(in.ContinuationToken) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}, nil
	}
	first := keys[0]
	for _, k := range keys {
		if k < first {
			first = k
		}
	}
	out := &s3.ListObjectsV2Output{
		Contents:    []types.Object{{Key: aws.String(first)}},
		IsTruncated: aws.Bool(len(keys) > 1),
	}
	if len(keys) > 1 {
		out.NextContinuationToken = aws.String(first)
	}
	return out, nil
}

func TestS3Storage_ImplementsStorage(t *testing.T) {
	var _ Storage = (*S3Storage)(nil)
}

func TestS3Storage_ObjectKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"", "scans/2024/01/15/run.json"},
		{"screener", "screener/scans/2024/01/15/run.json"},
		{"/screener/", "screener/scans/2024/01/15/run.json"},
	}
	for _, tt := range tests {
		s := newS3Storage(newMemBucket(), "b", tt.prefix)
		key := s.objectKey("scans/2024/01/15/run.json")
		assert.Equal(t, tt.want, key, "prefix %q", tt.prefix)
		assert.Equal(t, "scans/2024/01/15/run.json", s.snapshotPath(key))
	}
}

func TestS3Storage_SnapshotRoundTrip(t *testing.T) {
	bucket := newMemBucket()
	scans := NewScans(newS3Storage(bucket, "audit", "screener"), nil)
	scans.now = func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, scans.Save(context.Background(), "run-b", core.ScanResult{Success: true}))
	require.NoError(t, scans.Save(context.Background(), "run-a", core.ScanResult{Success: true}))
	bucket.objects["screener/scans/2024/01/15/notes.txt"] = []byte("ignored")
	bucket.objects["screener/scans/2024/01/16/run-c.json"] = []byte("{}")

	assert.Equal(t, "application/json", bucket.contentTypes["screener/scans/2024/01/15/run-a.json"])

	paths, err := scans.List(context.Background(), time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []string{"scans/2024/01/15/run-a.json", "scans/2024/01/15/run-b.json"}, paths)

	snap, err := scans.Load(context.Background(), paths[1])
	require.NoError(t, err)
	assert.Equal(t, "run-b", snap.RunID)
}

func TestS3Storage_ReadMissingIsNotFound(t *testing.T) {
	s := newS3Storage(newMemBucket(), "audit", "")

	_, err := s.Read(context.Background(), "scans/2024/01/15/nope.json")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestS3Storage_ListError(t *testing.T) {
	bucket := newMemBucket()
	bucket.listErr = errors.New("access denied")
	s := newS3Storage(bucket, "audit", "")

	_, err := s.List(context.Background(), "scans/2024/01/15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://audit/scans/2024/01/15")
}

func TestNewS3(t *testing.T) {
	s, err := NewS3(S3Config{Bucket: "scans", Endpoint: "http://localhost:9000", Region: "us-east-1", Prefix: "dash/"})
	require.NoError(t, err)
	assert.Equal(t, "scans", s.bucket)
	assert.Equal(t, "dash", s.prefix)

	_, err = NewS3(S3Config{})
	assert.ErrorIs(t, err, core.ErrConfigMissing)
}

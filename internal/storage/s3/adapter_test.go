package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jotter/internal/platform/config"
	"jotter/internal/storage"
	"jotter/internal/storage/storagetest"
)

// fakeBucket is an in-memory stand-in for a single S3 bucket.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (f *fakeBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(body))}, nil
}

func (f *fakeBucket) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeBucket) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func TestAdapterContract(t *testing.T) {
	storagetest.Run(t, NewAdapter(newFakeBucket(), "jotter"), storagetest.Options{Ordered: false})
}

func TestObjectLayout(t *testing.T) {
	bucket := newFakeBucket()
	a := NewAdapter(bucket, "jotter")

	id, err := a.Insert(context.Background(), "notes", storage.Document{Data: []byte(`{"title":"t"}`)})
	require.NoError(t, err)

	assert.Contains(t, bucket.objects, "notes/"+id+".json")
}

func TestListSkipsForeignKeys(t *testing.T) {
	bucket := newFakeBucket()
	bucket.objects["notes/readme.txt"] = []byte("not a record")
	a := NewAdapter(bucket, "jotter")

	docs, err := a.List(context.Background(), "notes")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestPutErrorIsWrapped(t *testing.T) {
	bucket := newFakeBucket()
	bucket.failPut = errors.New("access denied")
	a := NewAdapter(bucket, "jotter")

	_, err := a.Insert(context.Background(), "notes", storage.Document{Data: []byte(`{}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewClientWithCustomEndpoint(t *testing.T) {
	client, err := NewClient(context.Background(), config.S3Config{
		Region:          "us-east-1",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
	})
	require.NoError(t, err)

	opts := client.Options()
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)
}

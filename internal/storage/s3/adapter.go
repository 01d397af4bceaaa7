package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"jotter/internal/platform/config"
	"jotter/internal/storage"
	"jotter/pkg/platform/sentinel"
)

// Client is the subset of *s3.Client the adapter needs.
type Client interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Adapter stores each record as the object "<entity>/<id>.json".
// Listing follows key order, not insertion order.
type Adapter struct {
	client Client
	bucket string
}

func NewAdapter(client Client, bucket string) *Adapter {
	return &Adapter{client: client, bucket: bucket}
}

// NewClient builds an S3 client from static credentials when given, the
// default AWS chain otherwise. A custom endpoint (MinIO, LocalStack) forces
// path-style addressing.
func NewClient(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func objectKey(entity, id string) string {
	return entity + "/" + id + ".json"
}

func (a *Adapter) List(ctx context.Context, entity string) ([]storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return nil, err
	}
	prefix := entity + "/"
	docs := []storage.Document{}

	pages := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list %s: %w", entity, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			id, ok := strings.CutSuffix(strings.TrimPrefix(key, prefix), ".json")
			if !ok || id == "" {
				continue
			}
			doc, err := a.Get(ctx, entity, id)
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (a *Adapter) Get(ctx context.Context, entity, id string) (storage.Document, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return storage.Document{}, err
	}
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey(entity, id)),
	})
	if isNotFound(err) {
		return storage.Document{}, storage.NotFound(entity, id)
	}
	if err != nil {
		return storage.Document{}, fmt.Errorf("s3 get %s/%s: %w", entity, id, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return storage.Document{}, fmt.Errorf("s3 read %s/%s: %w", entity, id, err)
	}
	return storage.Document{ID: id, Data: data}, nil
}

// Insert is a single PUT, which S3 applies atomically.
func (a *Adapter) Insert(ctx context.Context, entity string, doc storage.Document) (string, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return "", err
	}
	id := storage.AssignID(doc.ID)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey(entity, id)),
		Body:        bytes.NewReader(doc.Data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s/%s: %w", entity, id, err)
	}
	return id, nil
}

// Delete probes with HEAD first because DeleteObject succeeds for missing keys.
func (a *Adapter) Delete(ctx context.Context, entity, id string) (int64, error) {
	if err := storage.CheckEntity(entity); err != nil {
		return 0, err
	}
	key := aws.String(objectKey(entity, id))
	_, err := a.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(a.bucket), Key: key})
	if isNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("s3 head %s/%s: %w", entity, id, err)
	}
	if _, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(a.bucket), Key: key}); err != nil {
		return 0, fmt.Errorf("s3 delete %s/%s: %w", entity, id, err)
	}
	return 1, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

var _ storage.Adapter = (*Adapter)(nil)

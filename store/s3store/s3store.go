// Package s3store provides a store.Store backed by an S3 bucket.
package s3store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-faster/errors"

	"github.com/optimode/disposable/store"
	"github.com/optimode/disposable/types"
)

// DefaultPrefix is the object key prefix used when none is given.
const DefaultPrefix = "disposable/"

// API is the subset of *s3.Client the store uses.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store keeps each entry as a JSON object <prefix><key>.json.
type Store struct {
	client API
	bucket string
	prefix string
}

var _ store.Store = (*Store)(nil)

// New wraps an S3 client. An empty prefix means DefaultPrefix.
func New(client API, bucket, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// NewFromDefaultConfig loads AWS credentials from the environment and shared
// config files.
func NewFromDefaultConfig(ctx context.Context, bucket, region, prefix string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "load AWS config")
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func (s *Store) objectKey(key string) string {
	return path.Clean(s.prefix + key + ".json")
}

func (s *Store) Get(ctx context.Context, key string) (types.Entry, bool, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		var noSuchKey *s3types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return types.Entry{}, false, nil
		}
		return types.Entry{}, false, errors.Wrapf(err, "get s3://%s/%s", s.bucket, s.objectKey(key))
	}
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Entry{}, false, errors.Wrap(err, "read object body")
	}

	var e types.Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return types.Entry{}, false, errors.Wrap(err, "decode cache entry")
	}
	return e, true, nil
}

func (s *Store) Put(ctx context.Context, key string, entry types.Entry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
		Expires:     aws.Time(entry.ExpiresAt),
	})
	if err != nil {
		return errors.Wrapf(err, "put s3://%s/%s", s.bucket, s.objectKey(key))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		return errors.Wrapf(err, "delete s3://%s/%s", s.bucket, s.objectKey(key))
	}
	return nil
}

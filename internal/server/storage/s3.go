// Package storage keeps catalog image objects in S3 or an S3-compatible
// server.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/postapp/internal/awsx"
	"github.com/dmitrijs2005/postapp/internal/common"
	"github.com/dmitrijs2005/postapp/internal/server/models"
)

// ObjectStore is what the catalog needs from object storage.
type ObjectStore interface {
	// Put stores body under key and returns the object's URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Head(ctx context.Context, key string) (*models.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner is the subset of *s3.PresignClient used by S3Store.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

var (
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}
)

// Options configures an S3Store.
type Options struct {
	Bucket     string
	Region     string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	PresignTTL time.Duration
}

type S3Store struct {
	api     S3API
	presign Presigner
	bucket  string
	baseURL string
	ttl     time.Duration
}

func NewS3Store(api S3API, presign Presigner, opts Options) *S3Store {
	return &S3Store{
		api:     api,
		presign: presign,
		bucket:  opts.Bucket,
		baseURL: bucketURL(opts),
		ttl:     opts.PresignTTL,
	}
}

// NewS3StoreFromConfig builds the SDK clients for opts. A custom endpoint
// switches to path-style addressing, as MinIO expects.
func NewS3StoreFromConfig(ctx context.Context, opts Options) (*S3Store, error) {
	cfg, err := awsx.Load(ctx, awsx.Options{Region: opts.Region, AccessKey: opts.AccessKey, SecretKey: opts.SecretKey})
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = awsx.Endpoint(opts.Endpoint)
		o.UsePathStyle = opts.Endpoint != ""
	})

	return NewS3Store(client, newS3PresignClient(client), opts), nil
}

// bucketURL is the URL objects are reachable under, without the key.
func bucketURL(opts Options) string {
	if opts.Endpoint != "" {
		return strings.TrimSuffix(opts.Endpoint, "/") + "/" + opts.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
}

func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := s.api.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return s.baseURL + "/" + url.PathEscape(key), nil
}

// Head returns the object's metadata, or common.ErrNotFound.
func (s *S3Store) Head(ctx context.Context, key string) (*models.ObjectInfo, error) {
	out, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapNotFound(key, err)
	}

	return &models.ObjectInfo{
		Key:           key,
		ContentType:   aws.ToString(out.ContentType),
		ContentLength: aws.ToInt64(out.ContentLength),
		ETag:          aws.ToString(out.ETag),
		LastModified:  out.LastModified,
		Metadata:      out.Metadata,
	}, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PresignGet returns a time-limited download URL. The object must exist.
func (s *S3Store) PresignGet(ctx context.Context, key string) (string, error) {
	if _, err := s.Head(ctx, key); err != nil {
		return "", err
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func wrapNotFound(key string, err error) error {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return fmt.Errorf("object %s: %w", key, common.ErrNotFound)
	}
	return fmt.Errorf("head object %s: %w", key, err)
}

package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/you/usersvc/domain"
)

// S3Config configures the avatar bucket
type S3Config struct {
	Region        string
	Bucket        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore implements domain.ImageStore on any S3-compatible bucket
type S3ImageStore struct {
	client  putObjectAPI
	bucket  string
	baseURL string
}

// NewS3ImageStore builds the S3 client from static credentials when given, otherwise from the default chain
func NewS3ImageStore(ctx context.Context, cfg S3Config) (*S3ImageStore, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3ImageStore(client, cfg), nil
}

func newS3ImageStore(client putObjectAPI, cfg S3Config) *S3ImageStore {
	baseURL := cfg.PublicBaseURL
	switch {
	case baseURL != "":
	case cfg.Endpoint != "":
		baseURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3ImageStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Upload implements domain.ImageStore
func (s *S3ImageStore) Upload(ctx context.Context, key string, upload *domain.AvatarUpload) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   upload.Content,
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}
	if upload.Size > 0 {
		input.ContentLength = aws.Int64(upload.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}

var _ domain.ImageStore = (*S3ImageStore)(nil)

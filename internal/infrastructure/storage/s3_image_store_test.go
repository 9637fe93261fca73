package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/usersvc/domain"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if params.Body != nil {
		b, _ := io.ReadAll(params.Body)
		f.body = string(b)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3ImageStore_Upload(t *testing.T) {
	fake := &fakePutObject{}
	store := newS3ImageStore(fake, S3Config{Region: "eu-west-1", Bucket: "avatars"})

	url, err := store.Upload(context.Background(), "avatars/1/a.png", &domain.AvatarUpload{
		Filename:    "a.png",
		ContentType: "image/png",
		Size:        4,
		Content:     strings.NewReader("data"),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://avatars.s3.eu-west-1.amazonaws.com/avatars/1/a.png", url)
	assert.Equal(t, "avatars", *fake.input.Bucket)
	assert.Equal(t, "avatars/1/a.png", *fake.input.Key)
	assert.Equal(t, "image/png", *fake.input.ContentType)
	assert.Equal(t, int64(4), *fake.input.ContentLength)
	assert.Equal(t, "data", fake.body)
}

func TestS3ImageStore_BaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  S3Config
		want string
	}{
		{name: "public base url wins", cfg: S3Config{Bucket: "b", Endpoint: "http://minio:9000", PublicBaseURL: "https://cdn.example.com/"}, want: "https://cdn.example.com/k"},
		{name: "custom endpoint", cfg: S3Config{Bucket: "b", Endpoint: "http://minio:9000/"}, want: "http://minio:9000/b/k"},
		{name: "aws virtual host", cfg: S3Config{Bucket: "b", Region: "us-east-1"}, want: "https://b.s3.us-east-1.amazonaws.com/k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newS3ImageStore(&fakePutObject{}, tt.cfg)
			url, err := store.Upload(context.Background(), "k", &domain.AvatarUpload{Content: strings.NewReader("")})
			require.NoError(t, err)
			assert.Equal(t, tt.want, url)
		})
	}
}

func TestS3ImageStore_UploadError(t *testing.T) {
	store := newS3ImageStore(&fakePutObject{err: errors.New("access denied")}, S3Config{Bucket: "b"})

	_, err := store.Upload(context.Background(), "k", &domain.AvatarUpload{Content: strings.NewReader("x")})
	assert.Error(t, err)
}

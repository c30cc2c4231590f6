package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjectAPI struct {
	puts    []*s3.PutObjectInput
	body    string
	deletes []*s3.DeleteObjectInput
	err     error
}

func (f *fakeObjectAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

func withS3Seams(t *testing.T, load func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error), client func(aws.Config, ...func(*s3.Options)) objectAPI) {
	t.Helper()
	origLoad, origClient := loadDefaultAWSConfig, newS3ClientFromConfig
	loadDefaultAWSConfig, newS3ClientFromConfig = load, client
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origClient
	})
}

func TestNewS3Storage_AppliesEndpointAndCredentials(t *testing.T) {
	var gotOpts s3.Options
	var loadOpts config.LoadOptions

	withS3Seams(t,
		func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
			for _, fn := range optFns {
				require.NoError(t, fn(&loadOpts))
			}
			return aws.Config{}, nil
		},
		func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
			for _, fn := range optFns {
				fn(&gotOpts)
			}
			return &fakeObjectAPI{}
		},
	)

	s, err := NewS3Storage(context.Background(), Config{
		Type: TypeS3, S3Bucket: "pics", S3Region: "eu-west-1",
		S3AccessKey: "minio", S3SecretKey: "minio123", S3BaseEndpoint: "http://127.0.0.1:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "pics", s.bucket)

	assert.Equal(t, "eu-west-1", loadOpts.Region)
	require.NotNil(t, loadOpts.Credentials)
	creds, err := loadOpts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)

	require.NotNil(t, gotOpts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *gotOpts.BaseEndpoint)
	assert.True(t, gotOpts.UsePathStyle)
}

func TestNewS3Storage_DefaultChain(t *testing.T) {
	var gotOpts s3.Options
	var loadOpts config.LoadOptions

	withS3Seams(t,
		func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
			for _, fn := range optFns {
				require.NoError(t, fn(&loadOpts))
			}
			return aws.Config{}, nil
		},
		func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
			for _, fn := range optFns {
				fn(&gotOpts)
			}
			return &fakeObjectAPI{}
		},
	)

	_, err := NewS3Storage(context.Background(), Config{Type: TypeS3, S3Bucket: "pics", S3Region: "us-east-1"})
	require.NoError(t, err)
	assert.Nil(t, loadOpts.Credentials)
	assert.Nil(t, gotOpts.BaseEndpoint)
	assert.False(t, gotOpts.UsePathStyle)
}

func TestNewS3Storage_ConfigError(t *testing.T) {
	withS3Seams(t,
		func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no region")
		},
		func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI { return &fakeObjectAPI{} },
	)

	_, err := NewS3Storage(context.Background(), Config{Type: TypeS3})
	assert.ErrorContains(t, err, "failed to load AWS config")
}

func TestS3Storage_PutDelete(t *testing.T) {
	ctx := context.Background()
	api := &fakeObjectAPI{}
	s := &S3Storage{client: api, bucket: "pics"}

	require.NoError(t, s.Put(ctx, "profile_pictures/x.jpg", strings.NewReader("JPEG"), "image/jpeg"))
	require.Len(t, api.puts, 1)
	assert.Equal(t, "pics", aws.ToString(api.puts[0].Bucket))
	assert.Equal(t, "profile_pictures/x.jpg", aws.ToString(api.puts[0].Key))
	assert.Equal(t, "image/jpeg", aws.ToString(api.puts[0].ContentType))
	assert.Equal(t, "JPEG", api.body)

	require.NoError(t, s.Delete(ctx, "profile_pictures/x.jpg"))
	require.Len(t, api.deletes, 1)
	assert.Equal(t, "profile_pictures/x.jpg", aws.ToString(api.deletes[0].Key))

	assert.ErrorIs(t, s.Put(ctx, "../x", strings.NewReader(""), "image/png"), ErrInvalidKey)
}

func TestS3Storage_Errors(t *testing.T) {
	ctx := context.Background()
	s := &S3Storage{client: &fakeObjectAPI{err: errors.New("access denied")}, bucket: "pics"}

	assert.ErrorContains(t, s.Put(ctx, "a.png", strings.NewReader(""), "image/png"), "failed to upload to S3")
	assert.ErrorContains(t, s.Delete(ctx, "a.png"), "failed to delete from S3")
}

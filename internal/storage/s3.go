package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultPublicURL matches the virtual-hosted S3 website layout
const DefaultPublicURL = "https://{bucket}.s3-{region}.amazonaws.com/{key}"

// ErrUpload is returned for every failed upload
var ErrUpload = errors.New("upload chart")

// putObjectAPI is the part of the S3 client the store needs
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Options configures an S3Store
type S3Options struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string // template with {bucket}, {region} and {key} placeholders
}

// S3Store uploads chart images to a public S3 bucket
type S3Store struct {
	api       putObjectAPI
	bucket    string
	region    string
	publicURL string
	logger    zerolog.Logger
}

// NewS3Store creates a store. Static keys are used when both are set, otherwise the
// default AWS credential chain applies.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return newS3Store(s3.NewFromConfig(cfg), opts), nil
}

func newS3Store(api putObjectAPI, opts S3Options) *S3Store {
	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = DefaultPublicURL
	}
	return &S3Store{
		api:       api,
		bucket:    opts.Bucket,
		region:    opts.Region,
		publicURL: publicURL,
		logger:    log.With().Str("component", "s3_store").Str("bucket", opts.Bucket).Logger(),
	}
}

// NewObjectName returns a random object key for a PNG chart
func NewObjectName() string {
	return uuid.NewString() + ".png"
}

// PublicURL returns the address an uploaded object is served from
func (s *S3Store) PublicURL(name string) string {
	return strings.NewReplacer(
		"{bucket}", s.bucket,
		"{region}", s.region,
		"{key}", name,
	).Replace(s.publicURL)
}

// Upload stores body under name and returns its public URL
func (s *S3Store) Upload(ctx context.Context, name string, body []byte) (string, error) {
	if len(body) == 0 {
		return "", fmt.Errorf("%w: empty body for %s", ErrUpload, name)
	}

	_, err := s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		s.logger.Debug().Err(err).Str("key", name).Msg("Upload failed")
		return "", fmt.Errorf("%w: %s: %w", ErrUpload, name, err)
	}

	s.logger.Info().Str("key", name).Int("bytes", len(body)).Msg("Upload successful")
	return s.PublicURL(name), nil
}

// UploadFile stores the local file at path under name
func (s *S3Store) UploadFile(ctx context.Context, path, name string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug().Str("path", path).Msg("The file was not found")
		}
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return s.Upload(ctx, name, body)
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/docutag/articlegen/models"
)

// S3Config contains S3 storage configuration
type S3Config struct {
	Endpoint        string // Optional: Custom endpoint for MinIO or DigitalOcean Spaces
	Region          string // AWS region or DO region (e.g., "us-east-1" or "sfo3")
	Bucket          string // S3 bucket name
	Prefix          string // Optional key prefix inside the bucket
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	UsePathStyle    bool   // Use path-style addressing (required for MinIO)
}

// S3Storage handles S3-compatible object storage operations
type S3Storage struct {
	client *s3.Client
	bucket string
	config S3Config
}

// NewS3Storage creates a new S3Storage instance
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("S3 credentials are required")
	}

	// Build AWS config
	var opts []func(*config.LoadOptions) error

	opts = append(opts, config.WithRegion(cfg.Region))
	opts = append(opts, config.WithCredentialsProvider(
		credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	))

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with custom options
	s3Opts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
		// S3-compatible services such as MinIO and Spaces reject unrequested checksum headers.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	}

	client := s3.NewFromConfig(awsConfig, s3Opts)

	return &S3Storage{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// objectKey returns [prefix/]documents/YYYY/MM/<runID>/<name>
func (s *S3Storage) objectKey(runID, name string, now time.Time) string {
	// S3 keys always use forward slashes
	return path.Join(s.config.Prefix, "documents",
		fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), runID, name)
}

func (s *S3Storage) put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentTypeFromFilename(key)),
	})
	return err
}

// SaveDocument uploads a generated document to S3
// Returns the S3 key (path within bucket)
func (s *S3Storage) SaveDocument(ctx context.Context, runID string, doc models.GeneratedDocument) (string, error) {
	if err := checkName(doc.Filename); err != nil {
		return "", err
	}

	key := s.objectKey(runID, doc.Filename, time.Now())
	if err := s.put(ctx, key, []byte(doc.Content)); err != nil {
		return "", fmt.Errorf("failed to upload document to S3: %w", err)
	}

	return key, nil
}

// SaveArchive uploads docs to S3 as one zip archive
// Returns the S3 key (path within bucket)
func (s *S3Storage) SaveArchive(ctx context.Context, runID, name string, docs []models.GeneratedDocument) (string, error) {
	name = ArchiveName(name)
	if err := checkName(name); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := WriteArchive(&buf, docs); err != nil {
		return "", err
	}

	key := s.objectKey(runID, name, time.Now())
	if err := s.put(ctx, key, buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to upload archive to S3: %w", err)
	}

	return key, nil
}

// GetFullPath returns the s3:// URL for a key
func (s *S3Storage) GetFullPath(key string) string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}

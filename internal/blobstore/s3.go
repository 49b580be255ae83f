// Package blobstore hands out time-limited links to document objects kept in
// an S3-compatible bucket. The API never proxies document bytes itself.
package blobstore

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/hugh/go-collab/pkg/config"
)

type Store struct {
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	now     func() time.Time
}

// PresignedURL is a GET link valid until ExpiresAt.
type PresignedURL struct {
	URL       string
	ExpiresAt time.Time
}

func New(ctx context.Context, cfg *config.StorageConfig) (*Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  cfg.PresignExpiry(),
		now:     time.Now,
	}, nil
}

// PresignGet returns a signed GET link for key.
func (s *Store) PresignGet(ctx context.Context, key string) (*PresignedURL, error) {
	issuedAt := s.now()

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.expiry))
	if err != nil {
		return nil, fmt.Errorf("presigning %s: %w", key, err)
	}

	return &PresignedURL{
		URL:       req.URL,
		ExpiresAt: issuedAt.Add(s.expiry),
	}, nil
}

var safeExt = regexp.MustCompile(`^\.[A-Za-z0-9]{1,10}$`)

// NewKey builds an object key for a document uploaded without one. The
// document name never reaches the key; only a plain file extension survives.
func NewKey(projectID uuid.UUID, name string) string {
	ext := path.Ext(name)
	if !safeExt.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("projects/%s/%s%s", projectID, uuid.New(), ext)
}

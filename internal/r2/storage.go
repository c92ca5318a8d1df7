// Package r2 is the Cloudflare R2 (S3 API) object store client for rendition
// blobs. Uploads and removals are synchronous with capped retries; the caller
// decides what a failure means (primary renditions abort, size variants are
// best-effort).
package r2

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	conf "github.com/swairua/kennedynespot/internal/config"
	"github.com/swairua/kennedynespot/internal/logger"
)

type S3 struct {
	AccountID          string
	Bucket             string
	Region             string // usually "auto" for R2
	AwsAccessKeyId     string
	AwsSecretAccessKey string
	PublicBaseURL      string

	MaxRetries     int
	RetryBaseDelay time.Duration

	S3Client *s3.Client
	Uploader *manager.Uploader

	log *logger.Logger
}

func NewStorage(cfg *conf.R2Config, log *logger.Logger) (*S3, error) {
	r2c := &S3{
		AccountID:          cfg.AccountID,
		Bucket:             cfg.BucketName,
		Region:             "auto",
		AwsAccessKeyId:     cfg.AccessKeyID,
		AwsSecretAccessKey: cfg.SecretKey,
		PublicBaseURL:      strings.TrimRight(cfg.PublicBaseURL, "/"),
		MaxRetries:         3,
		RetryBaseDelay:     300 * time.Millisecond,
		log:                log,
	}
	if err := r2c.init(); err != nil {
		return nil, err
	}

	return r2c, nil
}

func (s *S3) init() error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AwsAccessKeyId, s.AwsSecretAccessKey, "",
		)),
		config.WithRegion(s.Region),
	)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	s.S3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.AccountID))
		o.UsePathStyle = true
	})
	s.Uploader = manager.NewUploader(s.S3Client)

	s.log.Info("r2 client initialized", "bucket", s.Bucket)
	return nil
}

// Upload puts one blob under key and returns its public URL. Retries with
// backoff up to MaxRetries before giving up.
func (s *S3) Upload(ctx context.Context, key, contentType string, payload []byte) (string, error) {
	var err error
	for attempt := 1; ; attempt++ {
		_, err = s.Uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(payload),
			ContentType: aws.String(contentType),
		})
		if err == nil {
			return s.PublicURL(key), nil
		}

		if attempt > s.MaxRetries || ctx.Err() != nil {
			break
		}

		timer := time.NewTimer(s.backoffDelay(attempt))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("failed to upload %q: %w", key, err)
}

// Remove deletes the object under key.
func (s *S3) Remove(ctx context.Context, key string) error {
	_, err := s.S3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}
	return nil
}

// backoffDelay doubles the base delay per attempt, with up to 10% random
// jitter centered on the nominal delay.
func (s *S3) backoffDelay(attempt int) time.Duration {
	delay := s.RetryBaseDelay << (attempt - 1)
	maxJitter := int64(delay) / 10
	if maxJitter <= 0 {
		return delay
	}
	return delay - time.Duration(maxJitter/2) + time.Duration(rand.Int63n(maxJitter))
}

func (s *S3) Download(ctx context.Context, key string) ([]byte, string, error) {
	out, err := s.S3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to download %q: %w", key, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, "", fmt.Errorf("failed to read body for %q: %w", key, err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return buf.Bytes(), contentType, nil
}

// PublicURL maps an object key to its public address.
func (s *S3) PublicURL(key string) string {
	return s.PublicBaseURL + "/" + key
}

// KeyFromURL maps a public URL back to the object key, for deletions.
func (s *S3) KeyFromURL(url string) string {
	return strings.TrimPrefix(strings.TrimPrefix(url, s.PublicBaseURL), "/")
}

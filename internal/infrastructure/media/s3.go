package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

type S3Options struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL prefixes object keys to form the stored URL.
	PublicBaseURL string
}

// S3 stores objects in any S3-compatible bucket (AWS, R2, MinIO).
type S3 struct {
	bucket   string
	base     string
	client   *s3.S3
	uploader *s3manager.Uploader
}

func NewS3(opts S3Options) (*S3, error) {
	cfg := &aws.Config{
		Region:      aws.String(opts.Region),
		Credentials: credentials.NewStaticCredentials(opts.AccessKeyID, opts.SecretAccessKey, ""),
	}
	if opts.Endpoint != "" {
		cfg.Endpoint = aws.String(opts.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("s3: create session: %w", err)
	}

	client := s3.New(sess)
	return &S3{
		bucket:   opts.Bucket,
		base:     strings.TrimRight(opts.PublicBaseURL, "/"),
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
	}, nil
}

func (s *S3) Upload(ctx context.Context, folder string, f File) (string, error) {
	key := fmt.Sprintf("%s/%s_%s", folder, uuid.NewString(), cleanName(f.Name))

	in := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f.Body,
		ACL:    aws.String(s3.ObjectCannedACLPublicRead),
	}
	if f.ContentType != "" {
		in.ContentType = aws.String(f.ContentType)
	}
	if _, err := s.uploader.UploadWithContext(ctx, in); err != nil {
		return "", fmt.Errorf("s3: upload %s: %w", key, err)
	}
	return s.base + "/" + keyPath(key), nil
}

func (s *S3) Delete(ctx context.Context, rawURL string) error {
	key, ok := s.keyFromURL(rawURL)
	if !ok {
		return ErrNotManaged
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %s: %w", key, err)
	}
	return nil
}

func (s *S3) keyFromURL(rawURL string) (string, bool) {
	prefix := s.base + "/"
	if s.base == "" || !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key, err := url.PathUnescape(strings.TrimPrefix(rawURL, prefix))
	if err != nil || key == "" {
		return "", false
	}
	return key, true
}

func keyPath(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

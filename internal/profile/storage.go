package profile

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FileStore persists uploaded profile files and yields either a public URL
// (pictures) or an internal object key (resumes).
type FileStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}

// S3FileStore stores uploads in a single S3 bucket. Profile pictures are
// written with a public-read ACL; resumes stay private and are referenced
// by key only.
type S3FileStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewS3FileStore(client *s3.Client, bucket, region string) *S3FileStore {
	return &S3FileStore{client: client, bucket: bucket, region: region}
}

func (s *S3FileStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return nil
}

func (s *S3FileStore) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

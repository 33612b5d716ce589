// internal/common/aws/s3.go
package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client writes artifacts. It keeps the SDK's default retryer and HTTP
// client; no explicit timeout is applied to storage writes.
type S3Client struct {
	client *s3.Client
}

func NewS3Client(cfg sdkaws.Config) *S3Client {
	return &S3Client{client: s3.NewFromConfig(cfg)}
}

func (s *S3Client) PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return s.client.PutObject(ctx, input, optFns...)
}

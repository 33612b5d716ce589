// internal/blog/storage/service.go
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "blog-generator/internal/common/errors"
	"blog-generator/internal/common/logger"
	"blog-generator/internal/common/metrics"
	"blog-generator/internal/common/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// KeyTimeLayout is the artifact key timestamp, second resolution.
const KeyTimeLayout = "20060102_150405"

const contentTypeText = "text/plain; charset=utf-8"

// ObjectPutter is the subset of the S3 client used for artifact writes.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket    string
	KeyPrefix string
}

type ServiceDependencies struct {
	Client        ObjectPutter
	Logger        logger.Logger
	Observability *observability.Observability
}

type Service struct {
	config Config
	client ObjectPutter
	logger logger.Logger
	obs    *observability.Observability
}

func NewService(deps ServiceDependencies, config Config) (*Service, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("storage: s3 client is required")
	}
	if config.Bucket == "" {
		return nil, fmt.Errorf("storage: bucket is required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		config: config,
		client: deps.Client,
		logger: log.With(map[string]interface{}{"component": "storage", "bucket": config.Bucket}),
		obs:    deps.Observability,
	}, nil
}

func (s *Service) Bucket() string { return s.config.Bucket }

// KeyFor returns the artifact key for an invocation started at t.
func (s *Service) KeyFor(t time.Time) string {
	return ArtifactKey(s.config.KeyPrefix, t)
}

// ArtifactKey formats "<prefix>/YYYYMMDD_HHMMSS.txt" in UTC. Two
// invocations within the same second share a key.
func ArtifactKey(prefix string, t time.Time) string {
	name := t.UTC().Format(KeyTimeLayout) + ".txt"
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// Save writes content as a single UTF-8 object, overwriting any existing
// object at key.
func (s *Service) Save(ctx context.Context, key, content string) error {
	ctx, span := s.obs.StartSpan(ctx, "storage.put_object",
		attribute.String("bucket", s.config.Bucket),
		attribute.String("key", key))
	defer span.End()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String(contentTypeText),
	})
	if err != nil {
		metrics.StorageWrites.WithLabelValues(metrics.OutcomeFailure).Inc()
		stdErr := apperrors.NewStorageFailedError(s.config.Bucket, key, err)
		span.RecordError(stdErr)
		span.SetStatus(codes.Error, stdErr.Message)
		s.logger.Error("error saving the blog", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return stdErr
	}

	metrics.StorageWrites.WithLabelValues(metrics.OutcomeSuccess).Inc()
	s.logger.Info("blog saved", map[string]interface{}{
		"key":   key,
		"bytes": len(content),
	})
	return nil
}

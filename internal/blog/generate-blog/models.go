// internal/blog/generate-blog/models.go
package generateblog

import (
	"context"
	"time"

	"blog-generator/internal/blog/generation"
	"blog-generator/internal/blog/index"
)

// Input is the decoded request body.
type Input struct {
	BlogTopic string `json:"blog_topic"`
}

const (
	HeaderContentType    = "Content-Type"
	HeaderArtifactKey    = "X-Artifact-Key"
	HeaderArtifactStored = "X-Artifact-Stored"
)

type Generator interface {
	Generate(ctx context.Context, topic string) (*generation.Result, error)
}

type ArtifactStore interface {
	KeyFor(t time.Time) string
	Save(ctx context.Context, key, content string) error
	Bucket() string
}

type ArtifactIndex interface {
	Record(ctx context.Context, e index.Entry) error
}

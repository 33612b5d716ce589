// internal/blog/generation/models.go
package generation

import (
	"context"

	"blog-generator/internal/common/logger"
	"blog-generator/internal/common/observability"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Payload is the Llama-family request body sent to InvokeModel.
type Payload struct {
	Prompt      string  `json:"prompt"`
	MaxGenLen   int     `json:"max_gen_len"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

// Result is the decoded InvokeModel response body. Absent fields decode to
// their zero values.
type Result struct {
	Generation           string `json:"generation"`
	PromptTokenCount     int    `json:"prompt_token_count"`
	GenerationTokenCount int    `json:"generation_token_count"`
	StopReason           string `json:"stop_reason"`
}

// ModelInvoker is the subset of the Bedrock runtime client the service needs.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type ServiceDependencies struct {
	Client        ModelInvoker
	Logger        logger.Logger
	Observability *observability.Observability
}

// internal/common/aws/bedrock.go
package aws

import (
	"context"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockClient invokes models on the Bedrock runtime. Retry attempts and the
// HTTP read timeout are owned by the SDK client.
type BedrockClient struct {
	client *bedrockruntime.Client
}

func NewBedrockClient(cfg sdkaws.Config, maxAttempts int, readTimeout time.Duration) *BedrockClient {
	return &BedrockClient{client: bedrockruntime.NewFromConfig(cfg, bedrockOptions(maxAttempts, readTimeout))}
}

func bedrockOptions(maxAttempts int, readTimeout time.Duration) func(*bedrockruntime.Options) {
	return func(o *bedrockruntime.Options) {
		o.RetryMaxAttempts = maxAttempts
		o.HTTPClient = awshttp.NewBuildableClient().WithTimeout(readTimeout)
	}
}

func (b *BedrockClient) InvokeModel(ctx context.Context, input *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	return b.client.InvokeModel(ctx, input, optFns...)
}

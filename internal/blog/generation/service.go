// internal/blog/generation/service.go
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"text/template"
	"time"

	apperrors "blog-generator/internal/common/errors"
	"blog-generator/internal/common/logger"
	"blog-generator/internal/common/metrics"
	"blog-generator/internal/common/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const contentTypeJSON = "application/json"

type Service struct {
	config *Config
	client ModelInvoker
	prompt *template.Template
	logger logger.Logger
	obs    *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) (*Service, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("generation: model client is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("generation: invalid config: %w", err)
	}
	tmpl, err := template.New("prompt").Option("missingkey=error").Parse(config.PromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("generation: parse prompt template: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Service{
		config: config,
		client: deps.Client,
		prompt: tmpl,
		logger: log.With(map[string]interface{}{"component": "generation", "modelId": config.ModelID}),
		obs:    deps.Observability,
	}, nil
}

// BuildPrompt renders the prompt template with the topic embedded verbatim.
func (s *Service) BuildPrompt(topic string) (string, error) {
	var buf bytes.Buffer
	if err := s.prompt.Execute(&buf, struct{ Topic string }{Topic: topic}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// BuildPayload combines the rendered prompt with the configured sampling
// parameters. Nothing but the prompt depends on the input.
func (s *Service) BuildPayload(topic string) (*Payload, error) {
	prompt, err := s.BuildPrompt(topic)
	if err != nil {
		return nil, err
	}
	return &Payload{
		Prompt:      prompt,
		MaxGenLen:   s.config.MaxGenLen,
		Temperature: s.config.Temperature,
		TopP:        s.config.TopP,
	}, nil
}

// Generate invokes the model once. Retries and the read timeout belong to the
// SDK client. Every failure, including an empty generation, comes back as a
// *errors.StandardError with a generation code; nothing panics past here.
func (s *Service) Generate(ctx context.Context, topic string) (*Result, error) {
	ctx, span := s.obs.StartSpan(ctx, "generation.invoke",
		attribute.String("model_id", s.config.ModelID))
	defer span.End()

	payload, err := s.BuildPayload(topic)
	if err != nil {
		return nil, s.fail(span, time.Time{}, apperrors.NewGenerationFailedError(s.config.ModelID, err))
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, s.fail(span, time.Time{}, apperrors.NewGenerationFailedError(s.config.ModelID, fmt.Errorf("encode payload: %w", err)))
	}

	start := time.Now()
	out, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.config.ModelID),
		Body:        body,
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
	})
	if err != nil {
		return nil, s.fail(span, start, apperrors.NewGenerationFailedError(s.config.ModelID, fmt.Errorf("invoke model: %w", err)))
	}
	if out == nil {
		return nil, s.fail(span, start, apperrors.NewGenerationFailedError(s.config.ModelID, fmt.Errorf("invoke model: nil response")))
	}

	var result Result
	if err := json.Unmarshal(out.Body, &result); err != nil {
		return nil, s.fail(span, start, apperrors.NewGenerationFailedError(s.config.ModelID, fmt.Errorf("decode response: %w", err)))
	}

	if result.Generation == "" {
		metrics.GenerationDuration.WithLabelValues(s.config.ModelID, metrics.OutcomeEmpty).Observe(time.Since(start).Seconds())
		stdErr := apperrors.NewEmptyGenerationError(s.config.ModelID)
		span.SetStatus(codes.Error, stdErr.Message)
		s.logger.Error("model returned empty generation", map[string]interface{}{
			"stopReason": result.StopReason,
		})
		return nil, stdErr
	}

	elapsed := time.Since(start)
	metrics.GenerationDuration.WithLabelValues(s.config.ModelID, metrics.OutcomeSuccess).Observe(elapsed.Seconds())
	metrics.GenerationTokens.WithLabelValues(s.config.ModelID, "prompt").Add(float64(result.PromptTokenCount))
	metrics.GenerationTokens.WithLabelValues(s.config.ModelID, "generation").Add(float64(result.GenerationTokenCount))
	span.SetAttributes(
		attribute.Int("prompt_tokens", result.PromptTokenCount),
		attribute.Int("generation_tokens", result.GenerationTokenCount),
	)

	s.logger.Info("blog generated", map[string]interface{}{
		"promptTokens":     result.PromptTokenCount,
		"generationTokens": result.GenerationTokenCount,
		"stopReason":       result.StopReason,
		"durationMs":       elapsed.Milliseconds(),
	})

	return &result, nil
}

func (s *Service) fail(span trace.Span, start time.Time, stdErr *apperrors.StandardError) error {
	if !start.IsZero() {
		metrics.GenerationDuration.WithLabelValues(s.config.ModelID, metrics.OutcomeFailure).Observe(time.Since(start).Seconds())
	}
	span.RecordError(stdErr)
	span.SetStatus(codes.Error, stdErr.Message)
	s.logger.Error("error generating the blog", map[string]interface{}{
		"error": stdErr.Details,
	})
	return stdErr
}

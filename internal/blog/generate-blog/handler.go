// internal/blog/generate-blog/handler.go
package generateblog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"blog-generator/internal/blog/index"
	"blog-generator/internal/blog/notify"
	apperrors "blog-generator/internal/common/errors"
	"blog-generator/internal/common/logger"
	"blog-generator/internal/common/metrics"
	"blog-generator/internal/common/observability"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const contentTypeJSON = "application/json"

type Dependencies struct {
	Generator     Generator
	Storage       ArtifactStore
	Index         ArtifactIndex   // optional
	Notifier      notify.Notifier // optional
	Logger        logger.Logger
	Observability *observability.Observability
	Now           func() time.Time // defaults to time.Now
	NewID         func() string    // defaults to uuid.NewString
}

type Handler struct {
	config    *Config
	generator Generator
	storage   ArtifactStore
	index     ArtifactIndex
	notifier  notify.Notifier
	logger    logger.Logger
	errors    *apperrors.ErrorHandler
	obs       *observability.Observability
	now       func() time.Time
	newID     func() string
}

func NewHandler(config *Config, deps Dependencies) (*Handler, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("generate-blog: generator is required")
	}
	if deps.Storage == nil {
		return nil, fmt.Errorf("generate-blog: storage is required")
	}
	if config == nil {
		config = &Config{}
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.With(map[string]interface{}{"component": "generate-blog"})

	h := &Handler{
		config:    config,
		generator: deps.Generator,
		storage:   deps.Storage,
		index:     deps.Index,
		notifier:  deps.Notifier,
		logger:    log,
		errors:    apperrors.NewErrorHandler(log),
		obs:       deps.Observability,
		now:       deps.Now,
		newID:     deps.NewID,
	}
	if h.now == nil {
		h.now = time.Now
	}
	if h.newID == nil {
		h.newID = uuid.NewString
	}
	return h, nil
}

// Handle serves one API Gateway proxy request. Every outcome, including a
// recovered panic, is reported through the response; the error is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	start := time.Now()
	invocationID := h.newID()
	fields := map[string]interface{}{"invocationId": invocationID}

	ctx, span := h.obs.StartSpan(ctx, "blog.handle", attribute.String("invocation_id", invocationID))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			resp = h.failure(apperrors.NewInternalError(fmt.Errorf("panic: %v", r)), fields)
			err = nil
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, resp.Body)
		}
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		metrics.RequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
		h.obs.RecordInvocation(ctx, resp.StatusCode, time.Since(start))
	}()

	input, perr := ParseInput(req)
	if perr != nil {
		return h.failure(perr, fields), nil
	}
	fields["topic"] = input.BlogTopic

	h.logger.Info("generating blog", fields)

	result, gerr := h.generator.Generate(ctx, input.BlogTopic)
	if gerr != nil {
		return h.failure(gerr, fields), nil
	}

	storedAt := h.now().UTC()
	key := h.storage.KeyFor(storedAt)
	stored := true
	if serr := h.storage.Save(ctx, key, result.Generation); serr != nil {
		if h.config.FailOnError {
			return h.failure(serr, fields), nil
		}
		stored = false
		h.logger.Warn("blog generated but not stored", map[string]interface{}{
			"invocationId": invocationID,
			"key":          key,
			"error":        serr.Error(),
		})
	} else {
		h.afterStore(ctx, input.BlogTopic, key, result.Generation, invocationID, storedAt)
	}

	h.logger.Info("invocation completed", map[string]interface{}{
		"invocationId": invocationID,
		"key":          key,
		"stored":       stored,
		"durationMs":   time.Since(start).Milliseconds(),
	})

	resp = respond(http.StatusOK, apperrors.MsgSuccess)
	resp.Headers[HeaderArtifactKey] = key
	resp.Headers[HeaderArtifactStored] = strconv.FormatBool(stored)
	return resp, nil
}

// afterStore runs the best-effort index and notification steps. storedAt is
// the instant the key was derived from. Failures are logged and counted only.
func (h *Handler) afterStore(ctx context.Context, topic, key, content, invocationID string, storedAt time.Time) {
	if h.index != nil {
		err := h.index.Record(ctx, index.Entry{
			Key:       key,
			Topic:     topic,
			Bucket:    h.storage.Bucket(),
			CreatedAt: storedAt,
		})
		if err != nil {
			metrics.SideEffectFailures.WithLabelValues("index").Inc()
			h.logger.Warn("failed to index artifact", map[string]interface{}{
				"invocationId": invocationID,
				"key":          key,
				"error":        err.Error(),
			})
		}
	}

	if h.notifier != nil {
		err := h.notifier.Notify(ctx, notify.Event{
			Key:    key,
			Bucket: h.storage.Bucket(),
			Topic:  topic,
			Size:   len(content),
		})
		if err != nil {
			metrics.SideEffectFailures.WithLabelValues("notify").Inc()
			h.logger.Warn("failed to send notification", map[string]interface{}{
				"invocationId": invocationID,
				"key":          key,
				"error":        err.Error(),
			})
		}
	}
}

func (h *Handler) failure(err error, fields map[string]interface{}) events.APIGatewayProxyResponse {
	outcome := h.errors.Resolve(err, fields)
	return respond(outcome.Status, outcome.Message)
}

// respond encodes message as a JSON string literal.
func respond(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(message)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{HeaderContentType: contentTypeJSON},
		Body:       string(body),
	}
}

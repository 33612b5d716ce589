// cmd/blog-generator/app.go
package main

import (
	"context"
	"fmt"
	"os"

	generateblog "blog-generator/internal/blog/generate-blog"
	"blog-generator/internal/blog/generation"
	"blog-generator/internal/blog/index"
	"blog-generator/internal/blog/notify"
	"blog-generator/internal/blog/storage"
	"blog-generator/internal/common/aws"
	"blog-generator/internal/common/config"
	"blog-generator/internal/common/database"
	"blog-generator/internal/common/logger"
	"blog-generator/internal/common/observability"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

// app holds everything built once per process. Warm Lambda invocations
// reuse it.
type app struct {
	cfg     *config.Config
	zapLog  *zap.Logger
	logger  logger.Logger
	obs     *observability.Observability
	tracer  *sdktrace.TracerProvider
	redis   *database.RedisClient
	index   *index.Index
	handler *generateblog.Handler
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newApp(ctx context.Context, logFormat string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if logFormat == "" {
		logFormat = cfg.Logging.Format
	}

	zapLog, err := logger.New(cfg.Logging.Level, logFormat)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	var obsOpts []observability.Option
	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = observability.NewTracerProvider(cfg.App.Name, os.Stdout, cfg.Tracing.SampleRatio)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(tp)
		obsOpts = append(obsOpts, observability.WithTracerProvider(tp))
	}

	obs, err := observability.New(cfg.App.Name, obsOpts...)
	if err != nil {
		log.Warn("metrics exporter unavailable", map[string]interface{}{"error": err.Error()})
	}

	awsCfg, err := aws.LoadConfig(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, err
	}

	bedrock := aws.NewBedrockClient(awsCfg, cfg.AWS.MaxAttempts, config.GetDuration(cfg.AWS.ReadTimeout))
	gen, err := generation.NewService(generation.ServiceDependencies{
		Client:        bedrock,
		Logger:        log,
		Observability: obs,
	}, generation.FromAppConfig(cfg.Generation))
	if err != nil {
		return nil, err
	}

	store, err := storage.NewService(storage.ServiceDependencies{
		Client:        aws.NewS3Client(awsCfg),
		Logger:        log,
		Observability: obs,
	}, storage.Config{Bucket: cfg.Storage.Bucket, KeyPrefix: cfg.Storage.KeyPrefix})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, zapLog: zapLog, logger: log, obs: obs, tracer: tp}
	deps := generateblog.Dependencies{
		Generator:     gen,
		Storage:       store,
		Logger:        log,
		Observability: obs,
	}

	if cfg.Index.Redis.Enabled() {
		a.redis = database.NewRedis(cfg.Index.Redis)
		if err := a.redis.Ping(ctx); err != nil {
			// Indexing is best-effort; each failed write is logged later.
			log.Warn("artifact index unreachable", map[string]interface{}{"error": err.Error()})
		}
		a.index, err = index.New(a.redis.Client, index.Config{
			KeyPrefix:  cfg.Index.KeyPrefix,
			MaxEntries: cfg.Index.MaxEntries,
		}, log)
		if err != nil {
			return nil, err
		}
		deps.Index = a.index
	}

	if n := buildNotifier(cfg, awsCfg, log); n.Len() > 0 {
		deps.Notifier = n
	}

	a.handler, err = generateblog.NewHandler(generateblog.FromAppConfig(cfg), deps)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func buildNotifier(cfg *config.Config, awsCfg sdkaws.Config, log logger.Logger) *notify.Multi {
	var notifiers []notify.Notifier
	if cfg.Notifications.SNS.Enabled {
		notifiers = append(notifiers, notify.NewSNSNotifier(aws.NewSNSClient(awsCfg), cfg.Notifications.SNS.TopicARN))
	}
	if cfg.Notifications.SES.Enabled {
		ses := cfg.Notifications.SES
		notifiers = append(notifiers, notify.NewSESNotifier(aws.NewSESClient(awsCfg), ses.FromEmail, ses.ToEmails))
	}
	return notify.NewMulti(log, notifiers...)
}

func (a *app) Close(ctx context.Context) {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.Warn("tracer shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}
	if err := a.obs.Shutdown(ctx); err != nil {
		a.logger.Warn("observability shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	_ = a.zapLog.Sync()
}

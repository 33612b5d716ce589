// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPromptTemplate is rendered with the request topic as {{.Topic}}.
const DefaultPromptTemplate = "<s>[INST]Human: Write a 200-word blog on the topic {{.Topic}}\n    Assistant:[/INST]\n    "

// Load reads configs/config.yaml (optional), the config.<env>.yaml overlay
// (optional), .env and the process environment, in increasing precedence.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // overlay is optional

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key, which also makes each key bindable from
// the environment (STORAGE_BUCKET, GENERATION_MODEL_ID, ...).
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blog-generator")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.max_attempts", 3)
	v.SetDefault("aws.read_timeout", 300000)

	v.SetDefault("generation.model_id", "meta.llama2-13b-chat-v1")
	v.SetDefault("generation.max_gen_len", 512)
	v.SetDefault("generation.temperature", 0.5)
	v.SetDefault("generation.top_p", 0.9)
	v.SetDefault("generation.prompt_template", DefaultPromptTemplate)

	v.SetDefault("storage.bucket", "aws_bedrock_course1")
	v.SetDefault("storage.key_prefix", "blog-output")
	v.SetDefault("storage.fail_on_error", false)

	v.SetDefault("index.redis.address", "")
	v.SetDefault("index.redis.password", "")
	v.SetDefault("index.redis.db", 0)
	v.SetDefault("index.key_prefix", "blog")
	v.SetDefault("index.max_entries", 100)

	v.SetDefault("notifications.sns.enabled", false)
	v.SetDefault("notifications.sns.topic_arn", "")
	v.SetDefault("notifications.ses.enabled", false)
	v.SetDefault("notifications.ses.from_email", "")
	v.SetDefault("notifications.ses.to_emails", []string{})

	v.SetDefault("server.address", ":8080")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sample_ratio", 1.0)
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "${") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.AWS.Region == "" {
		return fmt.Errorf("aws.region is required")
	}
	if cfg.AWS.MaxAttempts < 1 {
		return fmt.Errorf("aws.max_attempts must be at least 1")
	}
	if cfg.AWS.ReadTimeout <= 0 {
		return fmt.Errorf("aws.read_timeout must be positive")
	}

	if cfg.Generation.ModelID == "" {
		return fmt.Errorf("generation.model_id is required")
	}
	if cfg.Generation.MaxGenLen <= 0 {
		return fmt.Errorf("generation.max_gen_len must be positive")
	}
	if cfg.Generation.Temperature < 0 || cfg.Generation.Temperature > 1 {
		return fmt.Errorf("generation.temperature must be between 0 and 1")
	}
	if cfg.Generation.TopP < 0 || cfg.Generation.TopP > 1 {
		return fmt.Errorf("generation.top_p must be between 0 and 1")
	}
	if strings.TrimSpace(cfg.Generation.PromptTemplate) == "" {
		return fmt.Errorf("generation.prompt_template is required")
	}

	if cfg.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required")
	}

	if cfg.Index.Redis.Enabled() && cfg.Index.MaxEntries <= 0 {
		return fmt.Errorf("index.max_entries must be positive when index.redis.address is set")
	}

	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}
	if cfg.Notifications.SES.Enabled {
		if cfg.Notifications.SES.FromEmail == "" {
			return fmt.Errorf("notifications.ses.from_email is required when ses is enabled")
		}
		if len(cfg.Notifications.SES.ToEmails) == 0 {
			return fmt.Errorf("notifications.ses.to_emails is required when ses is enabled")
		}
	}

	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be between 0 and 1")
	}

	return nil
}

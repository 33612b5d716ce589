package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// clearEnv blanks variables a developer machine or CI runner may export.
// viper ignores empty environment values.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"AWS_REGION", "STORAGE_BUCKET", "GENERATION_MODEL_ID", "LOGGING_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: blog-generator\n"))
	require.NoError(t, err)

	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, 3, cfg.AWS.MaxAttempts)
	assert.Equal(t, 300*time.Second, GetDuration(cfg.AWS.ReadTimeout))

	assert.Equal(t, "meta.llama2-13b-chat-v1", cfg.Generation.ModelID)
	assert.Equal(t, 512, cfg.Generation.MaxGenLen)
	assert.InDelta(t, 0.5, cfg.Generation.Temperature, 1e-9)
	assert.InDelta(t, 0.9, cfg.Generation.TopP, 1e-9)
	assert.Equal(t, DefaultPromptTemplate, cfg.Generation.PromptTemplate)

	assert.Equal(t, "aws_bedrock_course1", cfg.Storage.Bucket)
	assert.Equal(t, "blog-output", cfg.Storage.KeyPrefix)
	assert.False(t, cfg.Storage.FailOnError)

	assert.False(t, cfg.Index.Redis.Enabled())
	assert.False(t, cfg.Notifications.SNS.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Tracing.Enabled)
	assert.InDelta(t, 1.0, cfg.Tracing.SampleRatio, 1e-9)
}

func TestLoadFromFile_FileValues(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
aws:
  region: eu-west-1
  max_attempts: 5
generation:
  model_id: meta.llama3-8b-instruct-v1:0
  max_gen_len: 256
  temperature: 0.2
storage:
  bucket: my-blogs
  fail_on_error: true
index:
  redis:
    address: localhost:6379
  max_entries: 10
notifications:
  ses:
    enabled: true
    from_email: blog@example.com
    to_emails:
      - editor@example.com
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "eu-west-1", cfg.AWS.Region)
	assert.Equal(t, 5, cfg.AWS.MaxAttempts)
	assert.Equal(t, "meta.llama3-8b-instruct-v1:0", cfg.Generation.ModelID)
	assert.Equal(t, 256, cfg.Generation.MaxGenLen)
	assert.Equal(t, "my-blogs", cfg.Storage.Bucket)
	assert.True(t, cfg.Storage.FailOnError)
	assert.True(t, cfg.Index.Redis.Enabled())
	assert.Equal(t, 10, cfg.Index.MaxEntries)
	assert.Equal(t, []string{"editor@example.com"}, cfg.Notifications.SES.ToEmails)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_BUCKET", "from-env")
	t.Setenv("GENERATION_MODEL_ID", "meta.llama2-70b-chat-v1")
	t.Setenv("BLOG_PREFIX", "articles")

	cfg, err := LoadFromFile(writeConfig(t, "storage:\n  bucket: from-file\n  key_prefix: ${BLOG_PREFIX}\n"))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Storage.Bucket)
	assert.Equal(t, "meta.llama2-70b-chat-v1", cfg.Generation.ModelID)
	assert.Equal(t, "articles", cfg.Storage.KeyPrefix)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.AWS = AWSConfig{Region: "us-east-1", MaxAttempts: 3, ReadTimeout: 300000}
		cfg.Generation = GenerationConfig{
			ModelID: "meta.llama2-13b-chat-v1", MaxGenLen: 512, Temperature: 0.5, TopP: 0.9,
			PromptTemplate: DefaultPromptTemplate,
		}
		cfg.Storage = StorageConfig{Bucket: "b", KeyPrefix: "blog-output"}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing region", mutate: func(c *Config) { c.AWS.Region = "" }, errMsg: "aws.region"},
		{name: "zero attempts", mutate: func(c *Config) { c.AWS.MaxAttempts = 0 }, errMsg: "aws.max_attempts"},
		{name: "zero timeout", mutate: func(c *Config) { c.AWS.ReadTimeout = 0 }, errMsg: "aws.read_timeout"},
		{name: "missing model", mutate: func(c *Config) { c.Generation.ModelID = "" }, errMsg: "generation.model_id"},
		{name: "bad max_gen_len", mutate: func(c *Config) { c.Generation.MaxGenLen = 0 }, errMsg: "generation.max_gen_len"},
		{name: "bad temperature", mutate: func(c *Config) { c.Generation.Temperature = 1.5 }, errMsg: "generation.temperature"},
		{name: "bad top_p", mutate: func(c *Config) { c.Generation.TopP = -0.1 }, errMsg: "generation.top_p"},
		{name: "blank template", mutate: func(c *Config) { c.Generation.PromptTemplate = "  " }, errMsg: "prompt_template"},
		{name: "missing bucket", mutate: func(c *Config) { c.Storage.Bucket = "" }, errMsg: "storage.bucket"},
		{
			name: "index without capacity",
			mutate: func(c *Config) {
				c.Index.Redis.Address = "localhost:6379"
				c.Index.MaxEntries = 0
			},
			errMsg: "index.max_entries",
		},
		{name: "sns without topic", mutate: func(c *Config) { c.Notifications.SNS.Enabled = true }, errMsg: "topic_arn"},
		{
			name: "ses without recipients",
			mutate: func(c *Config) {
				c.Notifications.SES.Enabled = true
				c.Notifications.SES.FromEmail = "blog@example.com"
			},
			errMsg: "to_emails",
		},
		{name: "tracing ratio too high", mutate: func(c *Config) { c.Tracing.SampleRatio = 1.5 }, errMsg: "tracing.sample_ratio"},
		{name: "tracing ratio negative", mutate: func(c *Config) { c.Tracing.SampleRatio = -1 }, errMsg: "tracing.sample_ratio"},
		{
			name: "tracing enabled",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.SampleRatio = 0.25
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig          `mapstructure:"app"`
	AWS           AWSConfig          `mapstructure:"aws"`
	Generation    GenerationConfig   `mapstructure:"generation"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Index         IndexConfig        `mapstructure:"index"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Server        ServerConfig       `mapstructure:"server"`
	Logging       LoggingConfig      `mapstructure:"logging"`
	Tracing       TracingConfig      `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// AWSConfig holds the SDK client settings shared by every AWS service client.
// Retries and the read timeout are enforced by the SDK, not by this program.
type AWSConfig struct {
	Region      string `mapstructure:"region"`
	MaxAttempts int    `mapstructure:"max_attempts"`
	ReadTimeout int    `mapstructure:"read_timeout"` // milliseconds
}

// GenerationConfig holds the Bedrock model and its fixed sampling parameters.
type GenerationConfig struct {
	ModelID        string  `mapstructure:"model_id"`
	MaxGenLen      int     `mapstructure:"max_gen_len"`
	Temperature    float64 `mapstructure:"temperature"`
	TopP           float64 `mapstructure:"top_p"`
	PromptTemplate string  `mapstructure:"prompt_template"`
}

type StorageConfig struct {
	Bucket    string `mapstructure:"bucket"`
	KeyPrefix string `mapstructure:"key_prefix"`
	// FailOnError turns a failed artifact write into a 500 instead of the
	// historical 200.
	FailOnError bool `mapstructure:"fail_on_error"`
}

// IndexConfig configures the optional recent-artifacts index. An empty
// redis address disables it.
type IndexConfig struct {
	Redis      RedisConfig `mapstructure:"redis"`
	KeyPrefix  string      `mapstructure:"key_prefix"`
	MaxEntries int         `mapstructure:"max_entries"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type NotificationConfig struct {
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled   bool     `mapstructure:"enabled"`
		FromEmail string   `mapstructure:"from_email"`
		ToEmails  []string `mapstructure:"to_emails"`
	} `mapstructure:"ses"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TracingConfig enables span export to stdout, which Lambda forwards to
// CloudWatch Logs.
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

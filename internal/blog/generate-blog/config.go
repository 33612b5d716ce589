// internal/blog/generate-blog/config.go
package generateblog

import "blog-generator/internal/common/config"

type Config struct {
	// FailOnError answers 500 when the artifact write fails. The default
	// answers 200 with X-Artifact-Stored: false.
	FailOnError bool
}

func FromAppConfig(cfg *config.Config) *Config {
	return &Config{FailOnError: cfg.Storage.FailOnError}
}

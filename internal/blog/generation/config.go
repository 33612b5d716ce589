// internal/blog/generation/config.go
package generation

import (
	"fmt"

	"blog-generator/internal/common/config"
)

type Config struct {
	ModelID        string
	MaxGenLen      int
	Temperature    float64
	TopP           float64
	PromptTemplate string
}

func DefaultConfig() *Config {
	return &Config{
		ModelID:        "meta.llama2-13b-chat-v1",
		MaxGenLen:      512,
		Temperature:    0.5,
		TopP:           0.9,
		PromptTemplate: config.DefaultPromptTemplate,
	}
}

// FromAppConfig copies the generation section of the application config.
func FromAppConfig(cfg config.GenerationConfig) *Config {
	return &Config{
		ModelID:        cfg.ModelID,
		MaxGenLen:      cfg.MaxGenLen,
		Temperature:    cfg.Temperature,
		TopP:           cfg.TopP,
		PromptTemplate: cfg.PromptTemplate,
	}
}

func (c *Config) Validate() error {
	if c.ModelID == "" {
		return fmt.Errorf("model_id is required")
	}
	if c.MaxGenLen <= 0 {
		return fmt.Errorf("max_gen_len must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if c.TopP < 0 || c.TopP > 1 {
		return fmt.Errorf("top_p must be between 0 and 1")
	}
	if c.PromptTemplate == "" {
		return fmt.Errorf("prompt_template is required")
	}
	return nil
}

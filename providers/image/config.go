package image

import "time"

// OpenAIConfig configures the DALL-E image provider.
type OpenAIConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultOpenAIConfig returns default DALL-E config.
func DefaultOpenAIConfig() OpenAIConfig {
	return OpenAIConfig{
		BaseURL: "https://api.openai.com",
		Model:   "dall-e-3",
		Timeout: 120 * time.Second,
	}
}

// StabilityConfig configures the Stability AI image provider.
type StabilityConfig struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Engine  string        `json:"engine,omitempty" yaml:"engine,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// DefaultStabilityConfig returns default Stability config.
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		BaseURL: "https://api.stability.ai",
		Engine:  "stable-diffusion-xl-1024-v1-0",
		Timeout: 120 * time.Second,
	}
}
